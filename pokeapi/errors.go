package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Common errors
var (
	// ErrPokemonNotFound signals that the requested pokemon does not exist.
	// Routing code uses it to render a not-found page instead of an error page.
	ErrPokemonNotFound = errors.New("POKEMON_NOT_FOUND")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid pokeapi configuration")
	// ErrEmptyName is returned when a lookup is attempted without a name or id
	ErrEmptyName = errors.New("pokemon name or id is required")
)

// APIError represents a non-2xx response from the PokéAPI
type APIError struct {
	StatusCode int
	Message    string
}

// NewAPIError builds an APIError with the fixed message for the status code
func NewAPIError(status int) *APIError {
	return &APIError{StatusCode: status, Message: StatusMessage(status)}
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// StatusMessage returns the human readable message for an HTTP status
func StatusMessage(status int) string {
	switch status {
	case 404:
		return "Pokemon not found"
	case 400:
		return "Bad request"
	case 500:
		return "Internal server error"
	case 503:
		return "Service temporarily unavailable"
	default:
		return fmt.Sprintf("HTTP error %d", status)
	}
}

// IsNotFound reports whether err is a 404 from the API or ErrPokemonNotFound
func IsNotFound(err error) bool {
	if errors.Is(err, ErrPokemonNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// ErrorMessage converts any error returned by this package into a message
// suitable for display. When name is set, a 404 mentions the queried name.
func ErrorMessage(err error, name string) string {
	if err == nil {
		return ""
	}

	name = strings.TrimSpace(name)

	if IsNotFound(err) {
		if name != "" {
			return fmt.Sprintf("Pokemon %q not found. Check the spelling and try again.", name)
		}
		return StatusMessage(404)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}

	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return "Network error. Please check your connection and try again."
	}

	if errors.Is(err, ErrEmptyName) {
		return "Please enter a pokemon name or id"
	}

	return "An unexpected error occurred"
}
