// Package server exposes the board over HTTP: read queries for the
// dashboard and thin admin CRUD pass-throughs to the store. It serves JSON
// only; rendering is someone else's problem.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kolboard/kolboard/internal/builder"
	"github.com/kolboard/kolboard/internal/ingest"
	"github.com/kolboard/kolboard/internal/models"
	"github.com/kolboard/kolboard/internal/query"
	"github.com/kolboard/kolboard/internal/store"
	"github.com/kolboard/kolboard/internal/validator"
)

// Ingestor abstracts the ingestion driver so tests can stub it.
type Ingestor interface {
	Ingest(ctx context.Context, opts ingest.Options) (*models.IngestReport, error)
}

// ArticleSource abstracts the blog-page fetcher.
type ArticleSource interface {
	FetchArticle(ctx context.Context, url string) (models.RawPost, error)
}

type Server struct {
	store    *store.FileStore
	query    *query.Service
	ingestor Ingestor
	articles ArticleSource
	builder  *builder.Builder
	validate *validator.Validator
}

func New(st *store.FileStore, q *query.Service, ing Ingestor, articles ArticleSource, b *builder.Builder) *Server {
	return &Server{
		store:    st,
		query:    q,
		ingestor: ing,
		articles: articles,
		builder:  b,
		validate: validator.New(),
	}
}

// Router wires all routes onto a gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/kols", s.getKOLs)
		api.POST("/kols", s.addKOL)
		api.GET("/kols/:id", s.getKOL)
		api.PATCH("/kols/:id", s.updateKOL)
		api.DELETE("/kols/:id", s.deleteKOL)

		api.GET("/opinions", s.getOpinions)
		api.POST("/opinions", s.addOpinion)
		api.POST("/opinions/import", s.importArticle)
		api.DELETE("/opinions/:date/:id", s.deleteOpinion)

		api.GET("/dates", s.getDates)
		api.GET("/stats", s.getStats)

		api.POST("/ingest", s.runIngest)
	}
	return r
}

// --- KOLs ---

func (s *Server) getKOLs(c *gin.Context) {
	kols, err := s.query.KOLs()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, kols)
}

func (s *Server) getKOL(c *gin.Context) {
	kol, err := s.store.GetKOL(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, kol)
}

func (s *Server) addKOL(c *gin.Context) {
	var kol models.KOL
	if err := c.ShouldBindJSON(&kol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(kol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if kol.AddedAt == "" {
		kol.AddedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := s.store.AddKOL(kol); err != nil {
		s.fail(c, err)
		return
	}
	slog.Info("KOL added", "id", kol.ID, "handle", kol.Handle)
	c.JSON(http.StatusCreated, kol)
}

func (s *Server) updateKOL(c *gin.Context) {
	var patch models.KOLPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kol, err := s.store.UpdateKOL(c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, kol)
}

func (s *Server) deleteKOL(c *gin.Context) {
	if err := s.store.DeleteKOL(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Opinions ---

func (s *Server) getOpinions(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if err := s.validate.DateKey(date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		latest, err := s.query.LatestDate()
		if err != nil {
			s.fail(c, err)
			return
		}
		date = latest
	}
	if date == "" {
		// Nothing ingested yet. Not an error.
		c.JSON(http.StatusOK, []models.OpinionWithKOL{})
		return
	}

	ops, err := s.query.OpinionsWithKOLs(date)
	if err != nil {
		s.fail(c, err)
		return
	}
	if asset := c.Query("asset"); asset != "" {
		ops = query.FilterByAsset(ops, asset)
	}
	c.JSON(http.StatusOK, ops)
}

func (s *Server) addOpinion(c *gin.Context) {
	var op models.Opinion
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if op.ID == "" {
		op.ID = builder.OpinionID(op.SourceType, op.KOLID, strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	if op.AddedAt.IsZero() {
		op.AddedAt = time.Now().UTC()
	}
	if err := s.validate.Struct(op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.AddOpinion(op); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, op)
}

type importRequest struct {
	KOLID string `json:"kolId" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// importArticle fetches a blog post, classifies it and stores the resulting
// opinion attributed to the given KOL.
func (s *Server) importArticle(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kol, err := s.store.GetKOL(req.KOLID)
	if err != nil {
		s.fail(c, err)
		return
	}
	post, err := s.articles.FetchArticle(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	op := s.builder.Build(post, kol, models.SourceBlog)
	if err := s.store.AddOpinion(op); err != nil {
		s.fail(c, err)
		return
	}
	slog.Info("Article imported", "kol", kol.ID, "url", req.URL, "sentiment", op.Sentiment)
	c.JSON(http.StatusCreated, op)
}

func (s *Server) deleteOpinion(c *gin.Context) {
	if err := s.validate.DateKey(c.Param("date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.DeleteOpinion(c.Param("date"), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Dates, stats, ingestion ---

func (s *Server) getDates(c *gin.Context) {
	dates, err := s.query.AvailableDates()
	if err != nil {
		s.fail(c, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, dates)
}

func (s *Server) getStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		latest, err := s.query.LatestDate()
		if err != nil {
			s.fail(c, err)
			return
		}
		date = latest
	}
	stats, err := s.query.StatsForDate(date)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type ingestRequest struct {
	Handles      []string `json:"handles"`
	MaxPerHandle int      `json:"maxPerHandle"`
	DryRun       bool     `json:"dryRun"`
}

// runIngest triggers a synchronous ingestion run. Everything here blocks on
// the external fetch, so callers should expect the request to take a while.
func (s *Server) runIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxPerHandle <= 0 {
		req.MaxPerHandle = 10
	}

	report, err := s.ingestor.Ingest(c.Request.Context(), ingest.Options{
		Handles:      req.Handles,
		MaxPerHandle: req.MaxPerHandle,
		DryRun:       req.DryRun,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// fail maps store sentinel errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrKOLNotFound), errors.Is(err, models.ErrOpinionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrKOLExists), errors.Is(err, models.ErrOpinionExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
