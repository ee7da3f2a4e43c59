package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type todoRequest struct {
	Text   *string `json:"text"`
	Toggle bool    `json:"toggle"`
}

func CreateTodo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req todoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if req.Text == nil {
			writeError(w, d.Logger, badRequest("text is required"))
			return
		}
		todo := domain.NewTodo(*req.Text, nowMillis(d))
		apply(d, w, r, http.StatusCreated, todo.ID, func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.AddTodo(doc, todo)
		})
	}
}

// UpdateTodo toggles completion when toggle is set, and edits the text when
// text is present.
func UpdateTodo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req todoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if !req.Toggle && req.Text == nil {
			writeError(w, d.Logger, badRequest("nothing to update"))
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			var err error
			if req.Text != nil {
				if doc, err = domain.EditTodo(doc, id, *req.Text, now); err != nil {
					return doc, err
				}
			}
			if req.Toggle {
				return domain.ToggleTodo(doc, id, now)
			}
			return doc, nil
		})
	}
}

func DeleteTodo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.DeleteTodo(doc, id)
		})
	}
}

func ClearCompletedTodos(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apply(d, w, r, http.StatusOK, "", domain.ClearCompletedTodos)
	}
}
