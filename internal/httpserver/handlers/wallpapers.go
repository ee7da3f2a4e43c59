package handlers

import (
	"net/http"
	"path"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/wallpaper"
)

type wallpapersResponse struct {
	Packed     bool     `json:"packed"`
	Wallpapers []string `json:"wallpapers"`
	Skipped    []string `json:"skipped,omitempty"`
}

// Wallpapers lists the local wallpaper directory, inlined as data URIs when
// packing is enabled.
func Wallpapers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.WallpaperDir == "" {
			writeJSON(w, http.StatusOK, wallpapersResponse{Wallpapers: []string{}})
			return
		}

		if d.PackWallpapers {
			packed, err := wallpaper.Pack(d.WallpaperDir, d.MaxPackedWallpapers, d.MaxWallpaperBytes)
			if err != nil {
				d.Logger.Error("failed to pack wallpapers", logger.Error(err))
				writeJSON(w, http.StatusInternalServerError, apiError{Error: "wallpapers_unavailable", Description: err.Error()})
				return
			}
			if len(packed.Skipped) > 0 {
				d.Logger.Warn("wallpapers over the size limit skipped",
					logger.Strings("files", packed.Skipped))
			}
			writeJSON(w, http.StatusOK, wallpapersResponse{Packed: true, Wallpapers: packed.DataURIs, Skipped: packed.Skipped})
			return
		}

		paths, err := wallpaper.List(d.WallpaperDir, d.WallpaperPrefix)
		if err != nil {
			d.Logger.Error("failed to list wallpapers", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "wallpapers_unavailable", Description: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, wallpapersResponse{Wallpapers: paths})
	}
}

// WallpaperFiles serves the wallpaper directory itself.
func WallpaperFiles(d deps.Deps) http.Handler {
	return http.StripPrefix(path.Join("/", d.WallpaperPrefix)+"/", http.FileServer(http.Dir(d.WallpaperDir)))
}
