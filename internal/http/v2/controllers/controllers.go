// Package controllers es el composition root de los controllers HTTP.
// Cada dominio tiene su aggregator en su sub-paquete; acá sólo se arman
// inyectando los services ya creados por services.New.
package controllers

import (
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers/auth"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers/debug"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers/reset"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
)

// Controllers agrupa todos los sub-controllers por dominio.
type Controllers struct {
	Auth   *auth.Controllers
	Reset  *reset.Controllers
	Debug  *debug.Controller
	Health *health.HealthController
}

// New crea el agregador de controllers.
func New(svc *services.Services, cookies *remember.Cookies, clock common.Clock) *Controllers {
	return &Controllers{
		Auth:   auth.NewControllers(svc.Auth, cookies, clock),
		Reset:  reset.NewControllers(svc.Reset),
		Debug:  debug.NewController(svc.Debug, cookies),
		Health: health.NewHealthController(svc.Health),
	}
}
