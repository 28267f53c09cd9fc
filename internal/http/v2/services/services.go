// Package services es el composition root de los services HTTP.
//
// Cada dominio vive en su sub-paquete con su propio Deps/Services/NewServices;
// este archivo sólo los arma con las dependencias externas:
//
//	svcs := services.New(services.Deps{Users: ..., Tokens: ..., Dispatcher: ...})
//	ctrls := controllers.New(svcs, cookies, clock)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package services

import (
	"regexp"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/auth"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/debug"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/reset"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Users      repository.UserRepository
	Tokens     repository.ResetTokenRepository
	Dispatcher reset.Dispatcher

	// ─── Configuración ───
	CodeTTL      time.Duration
	CodeLength   int
	EmailPattern *regexp.Regexp

	Clock  common.Clock
	Record common.Recorder

	// ─── Health Check ───
	HealthDeps health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Auth   auth.Services
	Reset  reset.Services
	Debug  debug.Service
	Health health.HealthService
}

// New crea el agregador de services. Es el único lugar donde se instancian.
func New(d Deps) *Services {
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			Users:  d.Users,
			Record: d.Record,
		}),
		Reset: reset.NewServices(reset.Deps{
			Users:        d.Users,
			Tokens:       d.Tokens,
			Dispatcher:   d.Dispatcher,
			CodeTTL:      d.CodeTTL,
			CodeLength:   d.CodeLength,
			EmailPattern: d.EmailPattern,
			Clock:        d.Clock,
			Record:       d.Record,
		}),
		Debug:  debug.NewService(d.Users),
		Health: health.NewHealthService(d.HealthDeps),
	}
}
