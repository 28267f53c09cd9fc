// Package cookies arma las cookies que emite el subsistema de autenticación.
package cookies

import (
	"net/http"
	"strings"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
)

// Attrs son los atributos comunes de una familia de cookies.
type Attrs struct {
	Domain   string
	SameSite http.SameSite
	Secure   bool
	HTTPOnly bool
}

// ParseSameSite acepta "", "lax", "strict", "none" (case-insensitive). Default Lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		logger.L().Warn("cookie: unknown SameSite, using Lax", logger.String("samesite", s))
		return http.SameSiteLaxMode
	}
}

// Build devuelve una cookie en Path "/". Con ttl > 0 lleva Expires y Max-Age;
// con ttl == 0 es de sesión del navegador.
func Build(name, value string, a Attrs, ttl time.Duration, now time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   strings.TrimSpace(a.Domain),
		Secure:   a.Secure,
		HttpOnly: a.HTTPOnly,
		SameSite: a.SameSite,
	}
	if ttl > 0 {
		ck.Expires = now.Add(ttl).UTC()
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}

// Deletion devuelve la cookie que hace expirar name en el navegador.
// Mismo Path/Domain para que el user-agent la reemplace.
func Deletion(name string, a Attrs) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   strings.TrimSpace(a.Domain),
		Secure:   a.Secure,
		HttpOnly: a.HTTPOnly,
		SameSite: a.SameSite,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
}
