package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	api := guarded(r, d)
	limited := api.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.WriteBurst,
		RefillPerIPPerMin: d.WriteRefillPerMin,
		MaxEntries:        4096,
		TrustProxy:        d.TrustProxy,
	}))

	api.Get("/api/data", handlers.GetData(d))
	api.Put("/api/data", handlers.PutData(d))
	api.Get("/api/status", handlers.Status(d))
	api.Post("/api/sync", handlers.Sync(d))
	limited.Post("/api/save", handlers.Save(d))

	api.Get("/api/storage", handlers.GetStorage(d))
	api.Put("/api/storage", handlers.PutStorage(d))
	api.Delete("/api/storage", handlers.DeleteStorage(d))
	limited.Post("/api/storage/test", handlers.TestStorage(d))

	limited.Post("/api/upload", handlers.Upload(d))
	api.Post("/api/import", handlers.Import(d))

	api.Post("/api/categories", handlers.CreateCategory(d))
	api.Post("/api/categories/reorder", handlers.ReorderCategories(d))
	api.Patch("/api/categories/{id}", handlers.UpdateCategory(d))
	api.Delete("/api/categories/{id}", handlers.DeleteCategory(d))
	api.Get("/api/categories/{id}/browse", handlers.Browse(d))

	api.Post("/api/containers/{id}/links", handlers.CreateLink(d))
	api.Post("/api/containers/{id}/links/reorder", handlers.ReorderLinks(d))
	api.Patch("/api/links/{id}", handlers.UpdateLink(d))
	api.Delete("/api/links/{id}", handlers.DeleteLink(d))
	api.Post("/api/links/{id}/move", handlers.MoveLink(d))
	api.Post("/api/drag/over", handlers.DragOver(d))
	api.Post("/api/drag/end", handlers.DragEnd(d))

	api.Post("/api/todos", handlers.CreateTodo(d))
	api.Delete("/api/todos/completed", handlers.ClearCompletedTodos(d))
	api.Patch("/api/todos/{id}", handlers.UpdateTodo(d))
	api.Delete("/api/todos/{id}", handlers.DeleteTodo(d))

	api.Post("/api/notes", handlers.CreateNote(d))
	api.Patch("/api/notes/{id}", handlers.UpdateNote(d))
	api.Delete("/api/notes/{id}", handlers.DeleteNote(d))

	api.Put("/api/settings", handlers.UpdateSettings(d))
}
