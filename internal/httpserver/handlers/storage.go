package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type storageResponse struct {
	Configured bool                  `json:"configured"`
	Config     *domain.StorageConfig `json:"config,omitempty"`
}

// GetStorage returns the remote configuration with secrets redacted.
func GetStorage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := d.Dashboard.StorageConfig()
		if cfg == nil {
			writeJSON(w, http.StatusOK, storageResponse{})
			return
		}
		red := cfg.Redacted()
		writeJSON(w, http.StatusOK, storageResponse{Configured: true, Config: &red})
	}
}

func PutStorage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.StorageConfig
		if err := decodeJSON(w, r, &cfg); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Dashboard.SetStorageConfig(r.Context(), cfg); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		// Merge against the new remote in the background.
		d.Sync.Trigger()

		red := d.Dashboard.StorageConfig().Redacted()
		writeJSON(w, http.StatusOK, storageResponse{Configured: true, Config: &red})
	}
}

func DeleteStorage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Dashboard.ClearStorageConfig(r.Context()); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, storageResponse{})
	}
}

type testResponse struct {
	OK bool `json:"ok"`
}

// TestStorage checks the configuration in the body, or the stored one when
// the body is empty.
func TestStorage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var candidate *domain.StorageConfig
		var cfg domain.StorageConfig
		switch err := decodeJSON(w, r, &cfg); {
		case err == nil:
			candidate = &cfg
		case errors.Is(err, errEmptyBody):
		default:
			writeError(w, d.Logger, err)
			return
		}

		if err := d.Dashboard.TestConnection(r.Context(), candidate); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, testResponse{OK: true})
	}
}
