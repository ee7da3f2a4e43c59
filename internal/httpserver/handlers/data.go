package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

func GetData(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Dashboard.Document())
	}
}

// PutData replaces the whole document.
func PutData(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc domain.DataSchema
		if err := decodeJSON(w, r, &doc); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		apply(d, w, r, http.StatusOK, "", func(domain.DataSchema) (domain.DataSchema, error) {
			return domain.Normalize(doc), nil
		})
	}
}

func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Dashboard.Status())
	}
}

// Save pushes the document to the remote and waits for the result.
func Save(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Dashboard.Save(r.Context()); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Dashboard.Status())
	}
}

type syncResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// Sync queues a background merge with the remote.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Sync.Trigger() {
			d.Logger.Info("manual sync triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, syncResponse{Queued: true, Message: "sync queued"})
			return
		}
		d.Logger.Warn("sync already queued",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusTooManyRequests, syncResponse{Message: "sync already queued, please wait"})
	}
}
