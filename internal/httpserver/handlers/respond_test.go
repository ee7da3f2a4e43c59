package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/dashboard"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/secret"
	"github.com/MrSnakeDoc/startpage/internal/storage"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", &domain.ConfigError{Reason: "no remote"}, http.StatusBadRequest},
		{"bad request", badRequest("nope"), http.StatusBadRequest},
		{"invalid move", fmt.Errorf("x: %w", domain.ErrInvalidMove), http.StatusBadRequest},
		{"not found", fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unsafe path", storage.ErrUnsafePath, http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("save: %w", storage.ErrConflict), http.StatusConflict},
		{"busy", dashboard.ErrBusy, http.StatusTooManyRequests},
		{"upload", storage.ErrUploadUnsupported, http.StatusNotImplemented},
		{"locked", secret.ErrLocked, http.StatusServiceUnavailable},
		{"local store", fmt.Errorf("write local cache: %w: %w", dashboard.ErrLocalStore, errors.New("disk full")), http.StatusInternalServerError},
		{"remote", errors.New("connection reset"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := statusFor(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMatchInternalEndpoint(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"/healthz", "/healthz"},
		{"/he", "/healthz"},
		{"/status", "/api/status"},
		{"/R", "/readyz"},
		{"/", ""},
		{"/nope", ""},
	}
	for _, tt := range tests {
		if got := matchInternalEndpoint(tt.query); got != tt.want {
			t.Errorf("matchInternalEndpoint(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestFallbackURL(t *testing.T) {
	if got := fallbackURL("https://duckduckgo.com/?q=%s", "a&b c"); got != "https://duckduckgo.com/?q=a%26b+c" {
		t.Errorf("Expected escaped query, got %q", got)
	}
	if got := fallbackURL("https://example.com", "x"); got != "/" {
		t.Errorf("Expected / for a pattern without %%s, got %q", got)
	}
}

func TestSplitPath(t *testing.T) {
	got := splitPath("/tools//nested/")
	if len(got) != 2 || got[0] != "tools" || got[1] != "nested" {
		t.Errorf("Expected [tools nested], got %v", got)
	}
	if splitPath("") != nil {
		t.Error("Expected nil for empty path")
	}
}
