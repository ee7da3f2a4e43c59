package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/dashboard"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/secret"
	"github.com/MrSnakeDoc/startpage/internal/storage"
)

// maxJSONBody bounds request bodies other than uploads and imports.
const maxJSONBody = 4 << 20

type apiError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors onto HTTP statuses. Anything unknown came
// from the remote backend.
func statusFor(err error) (int, string) {
	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, "storage_not_configured"
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidMove):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, storage.ErrUnsafePath):
		return http.StatusUnprocessableEntity, "unsafe_path"
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, dashboard.ErrBusy):
		return http.StatusTooManyRequests, "busy"
	case errors.Is(err, storage.ErrUploadUnsupported):
		return http.StatusNotImplemented, "upload_unsupported"
	case errors.Is(err, secret.ErrLocked):
		return http.StatusServiceUnavailable, "locked"
	case errors.Is(err, dashboard.ErrLocalStore):
		return http.StatusInternalServerError, "local_store_failed"
	default:
		return http.StatusBadGateway, "remote_failed"
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Warn("request failed", logger.String("error_code", code), logger.Error(err))
	} else {
		log.Debug("request rejected", logger.String("error_code", code), logger.Error(err))
	}
	writeJSON(w, status, apiError{Error: code, Description: err.Error()})
}

var (
	errBadRequest = errors.New("bad request")
	errEmptyBody  = fmt.Errorf("request body is empty: %w", errBadRequest)
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errBadRequest)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// mutationResponse is returned by every editor endpoint.
type mutationResponse struct {
	// ID names the created entity, when there is one.
	ID     string            `json:"id,omitempty"`
	Data   domain.DataSchema `json:"data"`
	Status dashboard.Status  `json:"status"`
}
