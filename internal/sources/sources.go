// Package sources turns third-party bookmark formats into categories and
// folds them into a document.
package sources

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/sources/homepage"
	"github.com/MrSnakeDoc/startpage/internal/sources/netscape"
)

type Format string

const (
	FormatNetscape Format = "netscape"
	FormatHomepage Format = "homepage"
)

type Mode string

const (
	// ModeAppend adds imported categories after the existing ones.
	ModeAppend Mode = "append"
	// ModeReplace drops every existing category first.
	ModeReplace Mode = "replace"
)

// ParseFormat accepts the format names used by the API and CLI. Empty means
// netscape.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatNetscape, "html":
		return FormatNetscape, nil
	case FormatHomepage, "yaml":
		return FormatHomepage, nil
	default:
		return "", fmt.Errorf("unknown import format %q: %w", s, domain.ErrInvalidInput)
	}
}

// ParseMode accepts "append" (default) or "replace".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAppend:
		return ModeAppend, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown import mode %q: %w", s, domain.ErrInvalidInput)
	}
}

// Categories parses r in the given format.
func Categories(r io.Reader, format Format, now int64) ([]domain.Category, error) {
	switch format {
	case FormatNetscape:
		return netscape.Parse(r, now)
	case FormatHomepage:
		return homepage.Parse(r, now)
	default:
		return nil, fmt.Errorf("unknown import format %q: %w", format, domain.ErrInvalidInput)
	}
}

// Import returns an Edit that folds categories into a document.
func Import(categories []domain.Category, mode Mode) domain.Edit {
	return func(doc domain.DataSchema) (domain.DataSchema, error) {
		out := domain.Clone(doc)
		if mode == ModeReplace {
			out.Categories = nil
		}
		imported := domain.Clone(domain.DataSchema{Categories: categories}).Categories
		out.Categories = append(out.Categories, imported...)
		return domain.Normalize(out), nil
	}
}
