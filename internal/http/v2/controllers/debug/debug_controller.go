// Package debug contiene el controller de /debug_recuerdame.
package debug

import (
	"net/http"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/helpers"
	svc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/debug"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Controller maneja GET /debug_recuerdame.
type Controller struct {
	service svc.Service
	cookies *remember.Cookies
}

// NewController crea el controller de diagnóstico.
func NewController(service svc.Service, cookies *remember.Cookies) *Controller {
	return &Controller{service: service, cookies: cookies}
}

// Inspect devuelve el volcado de cookies, sesión y store. No escribe nada.
func (c *Controller) Inspect(w http.ResponseWriter, r *http.Request) {
	all := map[string]string{}
	for _, ck := range r.Cookies() {
		all[ck.Name] = ck.Value
	}

	resp := c.service.Inspect(r.Context(), session.FromContext(r.Context()), svc.Input{
		Remember:       c.cookies.Raw(r),
		UsernameCookie: c.cookies.Names()[0],
		AllCookies:     all,
	})
	helpers.WriteJSON(w, http.StatusOK, resp)
}
