package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

// apply runs one editor operation and answers with the new document.
func apply(d deps.Deps, w http.ResponseWriter, r *http.Request, status int, id string, edit domain.Edit) {
	doc, err := d.Dashboard.Apply(r.Context(), edit)
	if err != nil {
		writeError(w, d.Logger, err)
		return
	}
	writeJSON(w, status, mutationResponse{ID: id, Data: doc, Status: d.Dashboard.Status()})
}

// nowMillis is the edit timestamp for a request.
func nowMillis(d deps.Deps) int64 {
	return d.Now().UnixMilli()
}
