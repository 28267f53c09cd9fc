package router

import "github.com/go-chi/chi/v5"

// RegisterDebugRoutes registra /debug_recuerdame. No requiere sesión.
func RegisterDebugRoutes(r chi.Router, deps Deps) {
	r.Get("/debug_recuerdame", deps.Controllers.Debug.Inspect)
}
