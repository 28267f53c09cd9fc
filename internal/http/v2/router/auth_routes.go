package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
)

// RegisterAuthRoutes registra /login y /logout.
func RegisterAuthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Auth

	r.Get("/login", c.Login.Login)
	r.With(limit(deps.Limiters.Login, common.EventLogin, deps.OnLimited)).Post("/login", c.Login.Login)

	r.Get("/logout", c.Logout.Logout)
}
