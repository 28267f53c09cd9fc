package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/rate"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// RateConfig configura WithRateLimit.
type RateConfig struct {
	Limiter rate.Limiter
	// Key arma la clave del bucket; por defecto IPPathRateKey.
	// Una clave vacía deja pasar el request sin contarlo.
	Key func(r *http.Request) string
	// Event es la etiqueta reportada a OnLimited.
	Event     string
	OnLimited func(event, result string)
}

// IPPathRateKey limita por IP y ruta.
func IPPathRateKey(r *http.Request) string {
	return ClientIP(r) + "|" + r.URL.Path
}

// ResetEmailRateKey limita por cuenta en recuperación, sin importar de
// dónde vengan los intentos. Sin email en la sesión no hay clave.
func ResetEmailRateKey(r *http.Request) string {
	sess := session.FromContext(r.Context())
	if sess == nil || sess.ResetEmail == "" {
		return ""
	}
	return "reset|" + strings.ToLower(sess.ResetEmail)
}

// WithRateLimit limita sólo los POST: los GET de cada paso no cuentan.
// Si el backend falla se deja pasar el request.
func WithRateLimit(cfg RateConfig) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg.Limiter == nil {
			return next
		}
		keyFn := cfg.Key
		if keyFn == nil {
			keyFn = IPPathRateKey
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			res, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, allowing request",
					logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(int64(res.WindowTTL.Round(time.Second)/time.Second), 10))

			if !res.Allowed {
				secs := int64(res.RetryAfter.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.FormatInt(secs, 10))
				if cfg.OnLimited != nil {
					cfg.OnLimited(cfg.Event, "rate_limited")
				}
				errors.WriteError(w, errors.ErrTooManyRequests.WithDetail("retry after "+strconv.FormatInt(secs, 10)+"s"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
