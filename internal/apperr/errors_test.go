package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &NotFoundError{Resource: "session", ID: "abc"}, http.StatusNotFound},
		{"access denied", &AccessDeniedError{Resource: "session"}, http.StatusForbidden},
		{"validation", &ValidationError{Msg: "bad input"}, http.StatusBadRequest},
		{"generation", &GenerationError{Op: "quiz generation", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"aggregation", &AggregationError{Err: errors.New("bad shape")}, http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("lookup: %w", &NotFoundError{Resource: "session"}), http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GenerationError{Op: "passage generation", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "passage generation")
}
