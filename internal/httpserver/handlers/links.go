package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type createLinkRequest struct {
	Type        domain.LinkType `json:"type"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
}

// CreateLink adds a link or, with type "folder", an empty folder to a
// category or folder.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID := chi.URLParam(r, "id")
		var req createLinkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		now := nowMillis(d)
		var item domain.LinkItem
		switch req.Type {
		case domain.LinkTypeFolder:
			item = domain.NewFolder(req.Title, req.Icon, now)
		case "", domain.LinkTypeLink:
			item = domain.NewLink(domain.NewLinkParams{
				Title:       req.Title,
				URL:         req.URL,
				Icon:        req.Icon,
				Description: req.Description,
			}, now)
		default:
			writeError(w, d.Logger, badRequest("unknown link type %q", req.Type))
			return
		}

		apply(d, w, r, http.StatusCreated, item.ID, func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.AddLink(doc, containerID, item, now)
		})
	}
}

func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch domain.LinkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.UpdateLink(doc, id, patch, now)
		})
	}
}

func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.DeleteLink(doc, id, now)
		})
	}
}

func ReorderLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID := chi.URLParam(r, "id")
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.ReorderLinks(doc, containerID, req.Active, req.Over, now)
		})
	}
}

type moveRequest struct {
	Target string `json:"target"`
	// Index is the position in the target; omitted or negative appends.
	Index *int `json:"index"`
}

func MoveLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req moveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		index := -1
		if req.Index != nil {
			index = *req.Index
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return domain.MoveLink(doc, id, req.Target, index, now)
		})
	}
}

// DragOver applies the provisional move while an item hovers a target.
func DragOver(d deps.Deps) http.HandlerFunc {
	return drag(d, domain.DragOver)
}

// DragEnd commits a drop.
func DragEnd(d deps.Deps) http.HandlerFunc {
	return drag(d, domain.DragEnd)
}

func drag(d deps.Deps, op func(domain.DataSchema, string, string, int64) (domain.DataSchema, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if req.Active == "" || req.Over == "" {
			writeError(w, d.Logger, badRequest("active and over are required"))
			return
		}
		now := nowMillis(d)
		apply(d, w, r, http.StatusOK, "", func(doc domain.DataSchema) (domain.DataSchema, error) {
			return op(doc, req.Active, req.Over, now)
		})
	}
}

func splitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
