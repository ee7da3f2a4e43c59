package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

func mwAllow(d deps.Deps) Middleware {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

func mwHost(d deps.Deps) Middleware {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	internal := r.With(mwAllow(d))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.Get("/infra", handlers.Infra(d))
}
