package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Restorer repone la identidad de la sesión a partir de las cookies recuérdame.
type Restorer interface {
	Restore(ctx context.Context, sess *session.Session, tok remember.Token) bool
}

// RestoreSkip son las rutas donde no se intenta restaurar antes del handler.
// /login lo hace por su cuenta y /logout va a borrar todo igual.
var RestoreSkip = []string{"/login", "/logout", "/static/"}

func skipRestore(path string) bool {
	for _, p := range RestoreSkip {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// WithRestore intenta restaurar la sesión antes de cada request si no hay
// usuario y están las tres cookies. Un fallo nunca corta el request: el
// service lo registra y el request sigue sin sesión.
func WithRestore(cookies *remember.Cookies, svc Restorer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess != nil && !sess.Authenticated() && !skipRestore(r.URL.Path) {
				if tok, ok := cookies.Read(r); ok {
					svc.Restore(r.Context(), sess, tok)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
