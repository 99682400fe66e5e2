package record

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	structValid  *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		structValid = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValid
}

// FieldError describes one field that failed validation.
type FieldError struct {
	Field string
	Rule  string
	Value any
}

// ValidationError reports a malformed record. Malformed records are a hard
// failure: the data source is responsible for supplying well-formed input.
type ValidationError struct {
	Record string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("malformed %s", e.Record)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
	}
	return fmt.Sprintf("malformed %s: %s", e.Record, strings.Join(parts, ", "))
}

// Validate checks the struct tags of a record value.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate record: %w", err)
	}
	out := &ValidationError{Record: fmt.Sprintf("%T", v)}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Value: fe.Value(),
		})
	}
	return out
}

// ValidateItem enforces the cross-field rules the struct tags cannot express:
// a started, unmastered item needs an availability instant.
func ValidateItem(it ItemState) error {
	if err := Validate(it); err != nil {
		return err
	}
	if it.StartedAt != nil && it.MasteredAt == nil && it.AvailableAt == nil {
		return &ValidationError{
			Record: fmt.Sprintf("%T", it),
			Fields: []FieldError{{Field: "AvailableAt", Rule: "required_if_started", Value: nil}},
		}
	}
	return nil
}
