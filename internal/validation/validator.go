// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator carries one custom rule, `season_year`,
// which bounds a season to the years Formula 1 has existed (1950 through
// next year — providers publish the upcoming season's schedule early).
//
//	type raceParams struct {
//	    Year  int `validate:"season_year"`
//	    Round int `validate:"min=1,max=30"`
//	}
package validation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// firstSeasonYear is the first Formula 1 world championship season.
const firstSeasonYear = 1950

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single field failure with structured detail.
type ValidationError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns the human-readable message.
func (e *ValidationError) Error() string {
	return e.Message
}

// StructError is a collection of validation failures for one struct.
type StructError struct {
	Errors []ValidationError
}

// Error implements the error interface with all field messages joined.
func (se *StructError) Error() string {
	if len(se.Errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(se.Errors))
	for _, err := range se.Errors {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// getValidator returns the singleton validator, creating it on first use.
// The instance caches struct metadata, so reuse matters for performance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// season_year: a plausible F1 season.
		_ = validate.RegisterValidation("season_year", func(fl validator.FieldLevel) bool {
			year := fl.Field().Int()
			return year >= firstSeasonYear && year <= int64(time.Now().Year()+1)
		})
	})
	return validate
}

// ValidateStruct validates v against its `validate` tags.
// Returns nil on success or a *StructError describing every failed field.
func ValidateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: v was not a struct
		return &StructError{Errors: []ValidationError{{
			Message: err.Error(),
		}}}
	}

	se := &StructError{}
	for _, fe := range validationErrs {
		se.Errors = append(se.Errors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fieldMessage(fe),
		})
	}
	return se
}

// fieldMessage builds a readable message for one field error.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "season_year":
		return fmt.Sprintf("%s must be a season between %d and %d", fe.Field(), firstSeasonYear, time.Now().Year()+1)
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
