package middlewares

import (
	"net/http"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// WithLogging inyecta un logger con request_id en el contexto y registra
// un evento por request. El nivel sale de la clase del status.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			scoped := logger.From(r.Context()).With(
				logger.RequestID(GetRequestID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			r = r.WithContext(logger.ToContext(r.Context(), scoped))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				logger.Status(rec.status),
				logger.Bytes(rec.bytes),
				logger.DurationMs(time.Since(start).Milliseconds()),
				logger.ClientIP(ClientIP(r)),
				logger.UserAgent(r.UserAgent()),
			}
			// la sesión es un puntero: refleja un login hecho por el handler
			if s := session.FromContext(r.Context()); s.Authenticated() {
				fields = append(fields, logger.Username(s.Username))
			}

			switch {
			case rec.status >= 500:
				scoped.Error("request failed", fields...)
			case rec.status >= 400:
				scoped.Warn("request completed", fields...)
			default:
				scoped.Info("request completed", fields...)
			}
		})
	}
}
