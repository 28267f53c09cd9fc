// Package router registra las rutas con chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmetrics "github.com/Rock1274/MiniBodegaWeb/internal/http"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/controllers"
	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	mw "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/middlewares"
	"github.com/Rock1274/MiniBodegaWeb/internal/rate"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Limiters son los límites por ruta. Un nil desactiva ese límite.
// VerifyEmail cuenta los intentos de código por cuenta en recuperación.
type Limiters struct {
	Login       rate.Limiter
	Forgot      rate.Limiter
	Verify      rate.Limiter
	VerifyEmail rate.Limiter
}

// Deps contiene todo lo necesario para armar el router.
type Deps struct {
	Controllers *controllers.Controllers

	Codec    *session.Codec
	Cookies  *remember.Cookies
	Restorer mw.Restorer

	Limiters  Limiters
	OnLimited func(event, result string)

	// TrustedProxies decide cuándo se acepta X-Forwarded-For.
	TrustedProxies mw.TrustedProxies

	// Metrics se monta en MetricsPath si no es nil.
	Metrics     http.Handler
	MetricsPath string

	// Debug habilita /debug_recuerdame.
	Debug bool
}

// New arma el handler completo.
//
// Health y métricas quedan fuera de la sesión; el resto pasa por
// sesión -> logging -> no-store -> restauración.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(deps.TrustedProxies),
		httpmetrics.WithMetrics,
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterHealthRoutes(r, deps)
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(
			mw.WithSecurityHeaders(),
			mw.WithSession(deps.Codec),
			mw.WithLogging(),
			mw.WithNoStore(),
			mw.WithRestore(deps.Cookies, deps.Restorer),
		)
		RegisterAuthRoutes(r, deps)
		RegisterResetRoutes(r, deps)
		if deps.Debug {
			RegisterDebugRoutes(r, deps)
		}
	})

	return r
}

func limit(l rate.Limiter, event string, onLimited func(string, string)) func(http.Handler) http.Handler {
	return mw.WithRateLimit(mw.RateConfig{Limiter: l, Event: event, OnLimited: onLimited})
}

func limitBy(l rate.Limiter, key func(*http.Request) string, event string, onLimited func(string, string)) func(http.Handler) http.Handler {
	return mw.WithRateLimit(mw.RateConfig{Limiter: l, Key: key, Event: event, OnLimited: onLimited})
}
