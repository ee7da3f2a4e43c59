package routes

import (
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/handlers"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/api/search", handlers.Search(d))
	g.Get("/go", handlers.Go(d))

	g.Get("/api/wallpapers", handlers.Wallpapers(d))
	if d.WallpaperDir != "" {
		g.Handle(path.Join("/", d.WallpaperPrefix)+"/*", handlers.WallpaperFiles(d))
	}
}
