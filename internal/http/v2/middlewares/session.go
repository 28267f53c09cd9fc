package middlewares

import (
	"net/http"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// sessionWriter persiste la sesión justo antes de la primera escritura,
// cuando todavía se pueden agregar cabeceras.
type sessionWriter struct {
	http.ResponseWriter
	r     *http.Request
	codec *session.Codec
	sess  *session.Session
	saved bool
}

func (w *sessionWriter) save() {
	if w.saved {
		return
	}
	w.saved = true
	if err := w.codec.Save(w.ResponseWriter, w.sess); err != nil {
		logger.From(w.r.Context()).Error("session save failed",
			logger.Component("session"), logger.Err(err))
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.save()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// WithSession carga la sesión de la cookie en el contexto y la guarda al responder.
func WithSession(codec *session.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := codec.Load(r)
			r = r.WithContext(session.ToContext(r.Context(), sess))
			sw := &sessionWriter{ResponseWriter: w, r: r, codec: codec, sess: sess}
			next.ServeHTTP(sw, r)
			sw.save()
		})
	}
}
