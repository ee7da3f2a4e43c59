package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type categoryRequest struct {
	Title *string `json:"title"`
	Icon  *string `json:"icon"`
}

func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		params := domain.NewCategoryParams{}
		if req.Title != nil {
			params.Title = *req.Title
		}
		if req.Icon != nil {
			params.Icon = *req.Icon
		}
		now := nowMillis(d)
		cat := domain.NewCategory(params, now)
		apply(d, w, r, http.StatusCreated, cat.ID, func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.AddCategory(doc, cat, now)
		})
	}
}

// UpdateCategory renames a category and/or changes its icon.
func UpdateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			var err error
			if req.Title != nil {
				if doc, err = domain.RenameCategory(doc, id, *req.Title, now); err != nil {
					return doc, err
				}
			}
			if req.Icon != nil {
				if doc, err = domain.SetCategoryIcon(doc, id, *req.Icon, now); err != nil {
					return doc, err
				}
			}
			return doc, nil
		})
	}
}

func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.DeleteCategory(doc, id)
		})
	}
}

// reorderRequest moves Active to the position of Over.
type reorderRequest struct {
	Active string `json:"active"`
	Over   string `json:"over"`
}

func ReorderCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.ReorderCategories(doc, req.Active, req.Over)
		})
	}
}

// Browse resolves the navigator view for a category and a slash-separated
// folder path, e.g. ?path=tools/nested.
func Browse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := d.Dashboard.Document()

		var nav domain.Navigator
		nav.Open(chi.URLParam(r, "id"))
		for _, folderID := range splitPath(r.URL.Query().Get("path")) {
			if err := nav.Enter(doc, folderID); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}

		view, err := nav.View(doc)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
