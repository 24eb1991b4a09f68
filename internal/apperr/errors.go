// Package apperr defines the service-wide error taxonomy and its HTTP
// mapping. Handlers classify every service failure through these types;
// anything unclassified is treated as an internal error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError signals a missing or soft-deleted record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AccessDeniedError signals that the record exists but the caller does
// not own it.
type AccessDeniedError struct {
	Resource string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access to %s denied", e.Resource)
}

// ValidationError signals malformed or unusable input, including a
// quiz submission against a session that has no questions.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// GenerationError signals a failed call to the text-generation
// capability: unreachable, non-2xx, or an unparseable payload.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed during %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// AggregationError signals an unexpected data-shape fault inside the
// statistics computation. Always logged by the caller, never swallowed.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("statistics aggregation failed: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// HTTPStatus maps a service error onto its transport status code.
func HTTPStatus(err error) int {
	var (
		nf *NotFoundError
		ad *AccessDeniedError
		ve *ValidationError
		ge *GenerationError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ad):
		return http.StatusForbidden
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ge):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
