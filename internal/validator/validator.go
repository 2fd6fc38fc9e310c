// Package validator wraps go-playground/validator with the custom checks the
// board's records need.
package validator

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	// "datekey" matches the YYYY-MM-DD partition key format.
	_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

// Struct validates a value against its struct tags.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// DateKey checks a standalone YYYY-MM-DD partition key.
func (v *Validator) DateKey(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return nil
}
