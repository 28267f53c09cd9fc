package router

import "github.com/go-chi/chi/v5"

// RegisterHealthRoutes registra /healthz y /readyz. Son públicos y no pasan
// por sesión ni logging (muy frecuentes).
func RegisterHealthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Health
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
}
