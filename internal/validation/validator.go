// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package validation validates API request bodies with go-playground/validator.
//
// A single validator instance is shared process-wide so struct metadata is
// parsed once. Field errors are reported by their JSON names with readable
// messages:
//
//	type TrackRequest struct {
//	    UserID string `json:"user_id" validate:"required,max=128"`
//	    Type   string `json:"type" validate:"required,interaction_type"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // err.Fields() lists the failures
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/marquee/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error is the set of failures for one struct.
type Error struct {
	fields []FieldError
}

// Fields returns the individual failures.
func (e *Error) Fields() []FieldError {
	return e.fields
}

// Error joins the field messages.
func (e *Error) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.fields))
	for i, f := range e.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator returns the shared validator, registering Marquee's custom rules
// on first use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages match the request body.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		// Errors only occur for malformed registrations, which would be a
		// programming error caught by tests.
		_ = v.RegisterValidation("interaction_type", func(fl validator.FieldLevel) bool {
			return models.InteractionType(fl.Field().String()).Valid()
		})

		validate = v
	})
	return validate
}

// ValidateStruct validates s. It returns nil when s is valid.
func ValidateStruct(s any) *Error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{fields: []FieldError{{Field: "body", Tag: "invalid", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return &Error{fields: out}
}

var plainMessages = map[string]string{
	"required":         "%s is required",
	"interaction_type": "%s must be one of view, like, rate, bookmark, search, book",
	"datetime":         "%s has an invalid date format",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func message(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tmpl, ok := plainMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
