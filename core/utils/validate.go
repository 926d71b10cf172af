package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\d{3}-\d{3,4}-\d{4}$`)
)

const (
	identifierMinLength = 4
	identifierMaxLength = 20
	passwordMaxLength   = 128
)

// FieldError is a single field-level validation failure shown next to the
// offending input.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidationErrors maps field names to their failure.
type ValidationErrors map[string]*FieldError

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k].Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Add(field string, fe *FieldError) {
	if fe == nil {
		return
	}
	if _, exists := v[field]; exists {
		return
	}
	v[field] = fe
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for k, fe := range v {
		out[k] = fe.Message
	}
	return out
}

func ValidateIdentifier(id string) *FieldError {
	n := utf8.RuneCountInString(id)
	if n < identifierMinLength {
		return &FieldError{Code: "id.too_short", Message: fmt.Sprintf("ID must be at least %d characters.", identifierMinLength)}
	}
	if n > identifierMaxLength {
		return &FieldError{Code: "id.too_long", Message: fmt.Sprintf("ID must be at most %d characters.", identifierMaxLength)}
	}
	if !identifierRe.MatchString(id) {
		return &FieldError{Code: "id.charset", Message: "ID may contain only letters, digits and underscores."}
	}
	return nil
}

func ValidatePassword(password string, minLength int) *FieldError {
	if utf8.RuneCountInString(password) < minLength {
		return &FieldError{Code: "password.too_short", Message: fmt.Sprintf("Password must be at least %d characters.", minLength)}
	}
	if len(password) > passwordMaxLength {
		return &FieldError{Code: "password.too_long", Message: fmt.Sprintf("Password must be at most %d characters.", passwordMaxLength)}
	}
	return nil
}

func ValidateEmail(email string) *FieldError {
	if !emailRe.MatchString(email) {
		return &FieldError{Code: "email.invalid", Message: "Invalid email address."}
	}
	return nil
}

func ValidatePhone(phone string) *FieldError {
	if !phoneRe.MatchString(phone) {
		return &FieldError{Code: "phone.invalid", Message: "Invalid phone number format (e.g. 010-1234-5678)."}
	}
	return nil
}

func ValidateRequired(label, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Code: "required", Message: label + " is required."}
	}
	return nil
}
