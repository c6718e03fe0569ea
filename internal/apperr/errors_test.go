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
		err  error
		want int
	}{
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{Validation("title is required"), http.StatusBadRequest},
		{NotFound("job"), http.StatusNotFound},
		{Internal("failed to list jobs", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("get job 7: %w", NotFound("job"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, IsNotFound(err))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "job not found", e.Message)
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation jobs does not exist")
	err := Internal("failed to create job", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "title is required", PublicMessage(ValidationField("title", "title is required")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}
