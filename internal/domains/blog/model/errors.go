package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// Not Found
	ErrUserNotFound    = errors.New("user not found")
	ErrArticleNotFound = errors.New("article not found")

	// Conflict - repository level, service đổi thành ValidationError
	ErrEmailTaken = errors.New("email already exists")

	// Request body
	ErrInvalidReference = errors.New("invalid resource reference, expected an id or IRI")
	ErrInvalidBody      = errors.New("invalid request body")
	ErrInvalidID        = errors.New("invalid identifier")
)

// Violation codes
const (
	CodeRequired = "required"
	CodeLength   = "length"
	CodeFormat   = "format"
	CodeConflict = "conflict"
	CodeNotFound = "not_found"
)

// Violation is one field-scoped, user-correctable problem.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationError collects every violation found for a single write.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, code, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message, Code: code})
	e.sort()
}

func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Violations = append(e.Violations, other.Violations...)
	e.sort()
}

func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// Field returns the violations reported for field
func (e *ValidationError) Field(field string) []Violation {
	var out []Violation
	for _, v := range e.Violations {
		if v.Field == field {
			out = append(out, v)
		}
	}
	return out
}

// Replace drops the violations of field and records a single one instead
func (e *ValidationError) Replace(field, code, message string) {
	kept := e.Violations[:0]
	for _, v := range e.Violations {
		if v.Field != field {
			kept = append(kept, v)
		}
	}
	e.Violations = kept
	e.Add(field, code, message)
}

// OrNil returns nil when nothing was collected, so callers never get a typed nil error.
func (e *ValidationError) OrNil() error {
	if !e.HasViolations() {
		return nil
	}
	return e
}

func (e *ValidationError) sort() {
	sort.SliceStable(e.Violations, func(i, j int) bool {
		return lessField(e.Violations[i].Field, e.Violations[j].Field)
	})
}

// lessField so sánh field path, index so theo giá trị: article[2] < article[10]
func lessField(a, b string) bool {
	for a != "" && b != "" {
		da, db := leadingDigits(a), leadingDigits(b)
		if da > 0 && db > 0 {
			na, nb := strings.TrimLeft(a[:da], "0"), strings.TrimLeft(b[:db], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[da:], b[db:]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrArticleNotFound):
		return "ARTICLE_NOT_FOUND"
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrInvalidBody), errors.Is(err, ErrInvalidID):
		return "BAD_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrInvalidBody), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
