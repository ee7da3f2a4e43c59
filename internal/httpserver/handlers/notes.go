package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func CreateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		note := domain.NewNote(req.Title, req.Content, nowMillis(d))
		apply(d, w, r, http.StatusCreated, note.ID, func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.AddNote(doc, note)
		})
	}
}

func UpdateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req noteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.UpdateNote(doc, id, req.Title, req.Content, now)
		})
	}
}

func DeleteNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.DeleteNote(doc, id)
		})
	}
}

func UpdateSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Start from the current settings so partial bodies keep the rest.
		settings := d.Dashboard.Document().Settings
		if err := decodeJSON(w, r, &settings); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.UpdateSettings(doc, settings)
		})
	}
}
