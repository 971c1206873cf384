package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := Wrap(cause, CodeInternal, "failed to load question")

	t.Run("matches own code", func(t *testing.T) {
		assert.True(t, HasCode(wrapped, CodeInternal))
		assert.False(t, HasCode(wrapped, CodeNotFound))
	})

	t.Run("finds code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeNotFound, "question not found"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("finds inner code in nested coded errors", func(t *testing.T) {
		err := Wrap(New(CodeNotFound, "question not found"), CodeInternal, "outer")
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(cause, CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})

	t.Run("cause remains reachable", func(t *testing.T) {
		assert.ErrorIs(t, wrapped, cause)
		assert.Equal(t, "failed to load question: connection reset", wrapped.Error())
	})
}

func TestInvalid(t *testing.T) {
	err := Invalid("title", "title is required")
	de, ok := As(fmt.Errorf("create: %w", err))
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "title", de.Field)
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusBadRequest,
		CodeNotFound:     http.StatusNotFound,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
		Code("conflict"): http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
