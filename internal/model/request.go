package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LanguageRequest is a visitor's suggestion of a language missing from the
// catalog, queued for an administrator to review.
type LanguageRequest struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name" validate:"required,max=100"`
	Email     string    `json:"email" yaml:"email" validate:"required,email,max=254"`
	Info      string    `json:"info" yaml:"info" validate:"required,max=1000"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Validate trims the visitor's input and checks it.
func (r *LanguageRequest) Validate() error {
	if r == nil {
		return errors.New("request cannot be nil")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Info = strings.TrimSpace(r.Info)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid request: %w", formatValidationError(err))
	}
	return nil
}
