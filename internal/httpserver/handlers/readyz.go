package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the local store answers. The remote is optional
// and never gates readiness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Dashboard.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
