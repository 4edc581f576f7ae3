// Package storage is a small key/value persistence layer. Values are stored
// as JSON strings in a pluggable Backend; failures are logged and swallowed so
// that persistence problems never break the caller.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// KeySearchTerm stores the last submitted search term
const KeySearchTerm = "pokemon-search-term"

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend stores raw string values by key
type Backend interface {
	// Load returns the stored value and whether the key exists
	Load(key string) (string, bool, error)
	// Save stores value under key
	Save(key, value string) error
	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error
}

// Local wraps a Backend with JSON encoding and error logging
type Local struct {
	backend Backend
	logger  zerolog.Logger
}

// NewLocal creates a Local over backend
func NewLocal(backend Backend, logger zerolog.Logger) *Local {
	return &Local{backend: backend, logger: logger}
}

// Open creates the backend named by kind. path is ignored for "memory".
func Open(kind, path string) (Backend, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		f, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "sqlite":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
}

// Get reads key into a value of type T. A missing key or unreadable value
// yields fallback. Values written before JSON encoding was introduced are
// plain strings; they are returned as-is when T is string.
func Get[T any](l *Local, key string, fallback T) T {
	raw, ok, err := l.backend.Load(key)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to read from storage")
		return fallback
	}
	if !ok {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		if s, isString := any(&value).(*string); isString {
			*s = raw
			return value
		}
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to decode stored value, using fallback")
		return fallback
	}

	return value
}

// Set stores value under key as JSON
func (l *Local) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode value for storage")
		return
	}

	if err := l.backend.Save(key, string(data)); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to write to storage")
	}
}

// Remove deletes key
func (l *Local) Remove(key string) {
	if err := l.backend.Delete(key); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove from storage")
	}
}

// Close releases the backend if it holds resources
func (l *Local) Close() error {
	if c, ok := l.backend.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
