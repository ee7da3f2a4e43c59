package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an id does not exist anywhere in the tree.
	ErrNotFound = errors.New("not found")

	// ErrInvalidMove is returned when a folder would end up inside itself.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidInput is returned for edits that would break the data model.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotDocument is returned by Decode for valid JSON that carries no
	// document, such as null, {} or a document without settings.
	ErrNotDocument = errors.New("not a start page document")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// ConfigError reports an incomplete remote storage configuration. It is
// detected before any network call.
type ConfigError struct {
	Backend string
	Missing []string
	Reason  string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s storage is not fully configured: missing %s",
			e.Backend, strings.Join(e.Missing, ", "))
	}
	if e.Backend == "" {
		return "storage configuration: " + e.Reason
	}
	return fmt.Sprintf("%s storage configuration: %s", e.Backend, e.Reason)
}
