package model

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		v := f.Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
	validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
}

// Normalize trims identifiers and maps the status onto the enumeration.
func (l *Language) Normalize() error {
	l.ID = strings.TrimSpace(l.ID)
	l.Name = strings.TrimSpace(l.Name)
	l.Family = strings.TrimSpace(l.Family)
	st, err := NormalizeStatus(string(l.Status))
	if err != nil {
		return err
	}
	l.Status = st
	return nil
}

// Validate normalizes the record and checks it is safe to place on the globe.
func (l *Language) Validate() error {
	if l == nil {
		return errors.New("language cannot be nil")
	}
	if err := l.Normalize(); err != nil {
		return fmt.Errorf("language %q: %w", l.ID, err)
	}
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("language %q: %w", l.ID, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Namespace()))
		case "finite":
			msgs = append(msgs, fmt.Sprintf("%s must be a finite number", e.Namespace()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s out of range (%s=%s)", e.Namespace(), e.Tag(), e.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", e.Namespace()))
		case "status":
			msgs = append(msgs, fmt.Sprintf("%s has unknown value %v", e.Namespace(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
