// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	alumniIDPattern   = regexp.MustCompile(`^\d{8}$`)
	contactMailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlSchemePattern  = regexp.MustCompile(`(?i)^https?://`)
)

// validate is the shared validator instance. Field names reported in errors
// are taken from the `form` tag so they line up with the HTML inputs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("alumniid", func(fl validator.FieldLevel) bool {
		return IsValidAlumniID(fl.Field().String())
	})
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return contactMailFormat.MatchString(fl.Field().String())
	})

	return v
}

// FieldError is a single user-facing validation failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors is an ordered list of field errors. The order follows the
// order in which the checks ran, so First() is the message shown to the user.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Add appends an error for field unless that field already has one.
func (v *ValidationErrors) Add(field, message string) {
	for _, fe := range *v {
		if fe.Field == field {
			return
		}
	}
	*v = append(*v, FieldError{Field: field, Message: message})
}

// First returns the first error, or an empty FieldError.
func (v ValidationErrors) First() FieldError {
	if len(v) == 0 {
		return FieldError{}
	}
	return v[0]
}

// Fields returns the errors keyed by form field name for templates.
func (v ValidationErrors) Fields() map[string]string {
	m := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

// AsValidationErrors reports whether err carries validation errors.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// messages maps "field.tag" (or just "field") to the text shown to the user.
type messages map[string]string

// check runs struct validation and converts failures into ValidationErrors
// using the given message table.
func check(input any, msgs messages) ValidationErrors {
	var out ValidationErrors

	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("form", "Invalid form data")
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = "Invalid value for " + strings.ReplaceAll(field, "_", " ")
		}
		out.Add(field, msg)
	}
	return out
}

// IsValidAlumniID reports whether id is exactly eight ASCII digits.
func IsValidAlumniID(id string) bool {
	return alumniIDPattern.MatchString(id)
}

// NormalizeURL trims s and prefixes https:// when no http(s) scheme is present.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !urlSchemePattern.MatchString(s) {
		return "https://" + s
	}
	return s
}
