package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/sorteoslive/sorteos-backend/internal/repositories"
)

// ErrNotFound covers both unknown ids and ownership mismatches; callers
// must not be able to tell the two apart.
var ErrNotFound = repositories.ErrNotFound

// ErrNoEligibleParticipants is returned by Spin when every participant has
// already won (or the raffle has no participants at all).
var ErrNoEligibleParticipants = errors.New("no eligible participants")

// ValidationError carries field-level validation failures, rendered as a
// 422 with per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, msg := range e.Fields[k] {
			parts = append(parts, k+" "+msg)
		}
	}
	return strings.Join(parts, ", ")
}

// newFieldError builds a single-field ValidationError.
func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
