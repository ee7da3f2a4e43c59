package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/dashboard"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
	Links      int                        `json:"links"`
	Categories int                        `json:"categories"`
}

// Infra summarises the local store, the remote and the sync state.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := d.Dashboard.Status()
		components := map[string]componentStatus{
			"store":  checkStore(r.Context(), d),
			"remote": remoteStatus(st),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
			Links:      st.Links,
			Categories: st.Categories,
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Dashboard.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreType, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.StoreType}
}

func remoteStatus(st dashboard.Status) componentStatus {
	if st.RemoteType == "" {
		return componentStatus{OK: true, Mode: "local-only", Detail: "no remote configured"}
	}
	return componentStatus{
		OK:     st.SyncState != dashboard.StateError,
		Mode:   string(st.RemoteType),
		Detail: string(st.SyncState),
		Error:  st.LastError,
	}
}

// determineMode is "critical" without a working local store, "degraded"
// when the remote is failing and "ok" otherwise.
func determineMode(components map[string]componentStatus) string {
	if !components["store"].OK {
		return "critical"
	}
	if !components["remote"].OK {
		return "degraded"
	}
	return "ok"
}
