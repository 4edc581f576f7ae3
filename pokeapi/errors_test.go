package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{404, "Pokemon not found"},
		{400, "Bad request"},
		{500, "Internal server error"},
		{503, "Service temporarily unavailable"},
		{418, "HTTP error 418"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusMessage(tt.status))
			assert.Equal(t, tt.expected, NewAPIError(tt.status).Error())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Run("404 mentions the name", func(t *testing.T) {
		msg := ErrorMessage(NewAPIError(404), "missingno")
		assert.Contains(t, msg, "missingno")
		assert.Contains(t, msg, "not found")
	})

	t.Run("404 without name", func(t *testing.T) {
		assert.Equal(t, "Pokemon not found", ErrorMessage(NewAPIError(404), ""))
	})

	t.Run("sentinel", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", ErrPokemonNotFound, NewAPIError(404))
		assert.Contains(t, ErrorMessage(err, "mew"), "not found")
	})

	t.Run("other status", func(t *testing.T) {
		assert.Equal(t, "Internal server error", ErrorMessage(fmt.Errorf("wrapped: %w", NewAPIError(500)), "mew"))
	})

	t.Run("timeout", func(t *testing.T) {
		assert.Contains(t, ErrorMessage(context.DeadlineExceeded, ""), "timed out")
	})

	t.Run("cancelled request", func(t *testing.T) {
		err := fmt.Errorf("request failed: %w", &url.Error{Op: "Get", URL: "https://pokeapi.co/api/v2/pokemon/mew", Err: context.Canceled})
		assert.Equal(t, "The request was cancelled.", ErrorMessage(err, "mew"))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", ErrorMessage(errors.New("boom"), ""))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, ErrorMessage(nil, "x"))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewAPIError(404)))
	assert.True(t, IsNotFound(ErrPokemonNotFound))
	assert.False(t, IsNotFound(NewAPIError(500)))
	assert.False(t, IsNotFound(errors.New("x")))
}
