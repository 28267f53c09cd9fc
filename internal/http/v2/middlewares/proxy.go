package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies son las redes cuyos X-Forwarded-For se aceptan.
// Vacío: la IP del cliente es siempre la de la conexión.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies acepta IPs sueltas o CIDRs.
func ParseTrustedProxies(list []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(list))
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", s, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", s, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) trusts(ip string) bool {
	a, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// Resolve devuelve la IP del cliente. X-Forwarded-For sólo cuenta si la
// conexión viene de un proxy confiable; se recorre de derecha a izquierda y
// gana la primera entrada que no es otro proxy confiable.
func (t TrustedProxies) Resolve(r *http.Request) string {
	remote := remoteHost(r)
	if len(t) == 0 || !t.trusts(remote) {
		return remote
	}
	xff := r.Header.Values("X-Forwarded-For")
	if len(xff) == 0 {
		return remote
	}
	hops := strings.Split(strings.Join(xff, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if _, err := netip.ParseAddr(hop); err != nil {
			// entrada basura: no se puede seguir confiando en lo que está a la izquierda
			return remote
		}
		if !t.trusts(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}

// WithClientIP resuelve la IP del cliente una vez por request.
func WithClientIP(t TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxClientIPKey, t.Resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
