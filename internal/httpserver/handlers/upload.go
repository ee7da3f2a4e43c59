package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/sources"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// multipartMemory is kept in memory before spilling to temp files.
const multipartMemory = 8 << 20

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a wallpaper from the "file" form field on the remote.
func Upload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, d.Logger, badRequest("invalid upload: %v", err))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, d.Logger, badRequest("missing file field"))
			return
		}
		defer utils.Close(file)

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := d.Dashboard.Upload(r.Context(), file, header.Size, header.Filename, contentType, nil)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("wallpaper uploaded",
			logger.String("filename", header.Filename),
			logger.Int64("bytes", header.Size),
			logger.String("url", url))
		writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
	}
}

type importResponse struct {
	Imported int `json:"imported"`
	mutationResponse
}

// Import reads a bookmark export from the "file" form field or the raw body.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := sources.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		mode, err := sources.ParseMode(r.URL.Query().Get("mode"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)
		body := r.Body
		if err := r.ParseMultipartForm(multipartMemory); err == nil {
			file, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, d.Logger, badRequest("missing file field"))
				return
			}
			defer utils.Close(file)
			body = file
		} else if !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, d.Logger, badRequest("invalid upload: %v", err))
			return
		}

		n, err := d.Dashboard.Import(r.Context(), body, format, mode)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, importResponse{
			Imported: n,
			mutationResponse: mutationResponse{
				Data:   d.Dashboard.Document(),
				Status: d.Dashboard.Status(),
			},
		})
	}
}
