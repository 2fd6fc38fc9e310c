package classifier

// FallbackAsset labels opinions that mention no known ticker.
const FallbackAsset = "CRYPTO"

// DefaultConfig returns the built-in keyword tables. Callers that need a
// different vocabulary construct their own Config.
func DefaultConfig() Config {
	return Config{
		BullishKeywords: []string{
			"buy", "buying", "long", "bullish", "moon", "pump", "rally",
			"breakout", "accumulate", "undervalued", "upside", "growth",
			"higher", "all-time high", "ath", "hodl", "hold", "opportunity",
			"strong", "momentum", "green", "rip", "send it", "rocket",
			"surge", "soar", "bull run", "adoption", "institutional", "etf",
			"halving", "scarcity", "inflation hedge", "digital gold",
			"store of value",
		},
		BearishKeywords: []string{
			"sell", "selling", "short", "bearish", "crash", "dump",
			"correction", "breakdown", "overvalued", "downside", "decline",
			"lower", "fear", "risk", "bubble", "top", "exit", "weak", "red",
			"capitulation", "liquidation", "recession", "collapse", "ponzi",
			"fraud", "worthless", "dead", "scam", "rug pull", "blow off top",
		},
		Assets: []AssetPattern{
			{Symbol: "BTC", Aliases: []string{"bitcoin", "btc", "$btc", "sats", "satoshi", "halving"}},
			{Symbol: "ETH", Aliases: []string{"ethereum", "eth", "$eth", "ether", "vitalik"}},
			{Symbol: "SOL", Aliases: []string{"solana", "sol", "$sol"}},
			{Symbol: "NVDA", Aliases: []string{"nvidia", "nvda", "$nvda", "jensen"}},
			{Symbol: "TSLA", Aliases: []string{"tesla", "tsla", "$tsla"}},
			{Symbol: "AAPL", Aliases: []string{"apple", "aapl", "$aapl"}},
			{Symbol: "GOOGL", Aliases: []string{"google", "googl", "$googl", "alphabet", "goog", "$goog"}},
			{Symbol: "SPY", Aliases: []string{"s&p", "sp500", "spx", "$spx", "spy", "$spy", "s&p 500"}},
			{Symbol: "QQQ", Aliases: []string{"nasdaq", "qqq", "$qqq", "nasdaq-100", "tech stocks"}},
			{Symbol: "GLD", Aliases: []string{"gold", "xau", "$gold", "gld", "$gld", "precious metal"}},
		},
		FallbackAsset: FallbackAsset,
		MaxTags:       5,
	}
}
