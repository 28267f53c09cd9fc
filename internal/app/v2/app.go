// Package appv2 arma services, controllers y rutas en un http.Handler.
package appv2

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers"
	mw "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/middlewares"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/router"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	healthsvc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/reset"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Config holds configuration for the app.
type Config struct {
	CodeTTL      time.Duration
	CodeLength   int
	EmailPattern string // vacío usa el patrón por defecto

	Debug       bool
	MetricsPath string

	// TrustedProxies son IPs o CIDRs cuyo X-Forwarded-For se acepta.
	TrustedProxies []string
}

// Deps holds raw dependencies required to build the app.
type Deps struct {
	Users      repository.UserRepository
	Tokens     repository.ResetTokenRepository
	Dispatcher reset.Dispatcher

	Codec   *session.Codec
	Cookies *remember.Cookies

	Limiters router.Limiters
	Metrics  http.Handler // nil: sin /metrics

	Record common.Recorder
	Clock  common.Clock

	HealthDeps healthsvc.Deps
}

// App represents the wired application.
type App struct {
	Handler  http.Handler
	Services *services.Services
}

// New creates and wires the application.
func New(cfg Config, deps Deps) (*App, error) {
	switch {
	case deps.Users == nil, deps.Tokens == nil:
		return nil, errors.New("app: repositories are required")
	case deps.Dispatcher == nil:
		return nil, errors.New("app: dispatcher is required")
	case deps.Codec == nil:
		return nil, errors.New("app: session codec is required")
	case deps.Cookies == nil:
		return nil, errors.New("app: remember cookies are required")
	}

	var pattern *regexp.Regexp
	if cfg.EmailPattern != "" {
		re, err := regexp.Compile(cfg.EmailPattern)
		if err != nil {
			return nil, fmt.Errorf("app: invalid email pattern: %w", err)
		}
		pattern = re
	}

	proxies, err := mw.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	// 1. Services
	svcs := services.New(services.Deps{
		Users:        deps.Users,
		Tokens:       deps.Tokens,
		Dispatcher:   deps.Dispatcher,
		CodeTTL:      cfg.CodeTTL,
		CodeLength:   cfg.CodeLength,
		EmailPattern: pattern,
		Clock:        deps.Clock,
		Record:       deps.Record,
		HealthDeps:   deps.HealthDeps,
	})

	// 2. Controllers
	ctrls := controllers.New(svcs, deps.Cookies, deps.Clock)

	// 3. Routes
	handler := router.New(router.Deps{
		Controllers:    ctrls,
		Codec:          deps.Codec,
		Cookies:        deps.Cookies,
		Restorer:       svcs.Auth.Restore,
		Limiters:       deps.Limiters,
		OnLimited:      deps.Record,
		TrustedProxies: proxies,
		Metrics:        deps.Metrics,
		MetricsPath:    cfg.MetricsPath,
		Debug:          cfg.Debug,
	})

	return &App{Handler: handler, Services: svcs}, nil
}
