// Package remember implementa el Persistent Login Token ("recuérdame"):
// tres cookies independientes con usuario, rol e id.
//
// Los valores no están firmados. Sólo el usuario se usa para restaurar, y
// siempre se revalida contra el Credential Store; rol e id de la cookie se descartan.
package remember

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/cookies"
)

// Token son los valores de las tres cookies, tal como viajan.
type Token struct {
	Username string
	Role     string
	UserID   string
}

// TokenFor arma el Token de un usuario autenticado.
func TokenFor(username, role string, userID int64) Token {
	return Token{Username: username, Role: role, UserID: strconv.FormatInt(userID, 10)}
}

// Options configura nombres y atributos. Los defaults de config reproducen
// HttpOnly sí, Secure no, 30 días.
type Options struct {
	UsernameCookie string
	RoleCookie     string
	UserIDCookie   string
	TTL            time.Duration
	HTTPOnly       bool
	Secure         bool
	SameSite       http.SameSite
	Domain         string
}

// Cookies emite, lee y borra las tres cookies.
type Cookies struct {
	opts  Options
	attrs cookies.Attrs
}

// New construye Cookies. Nombres vacíos toman los históricos.
func New(opts Options) *Cookies {
	if opts.UsernameCookie == "" {
		opts.UsernameCookie = "recuerdame_usuario"
	}
	if opts.RoleCookie == "" {
		opts.RoleCookie = "recuerdame_tipo"
	}
	if opts.UserIDCookie == "" {
		opts.UserIDCookie = "recuerdame_user_id"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	return &Cookies{
		opts: opts,
		attrs: cookies.Attrs{
			Domain:   opts.Domain,
			SameSite: opts.SameSite,
			Secure:   opts.Secure,
			HTTPOnly: opts.HTTPOnly,
		},
	}
}

// Names devuelve los nombres de cookie en orden usuario, rol, id.
func (c *Cookies) Names() []string {
	return []string{c.opts.UsernameCookie, c.opts.RoleCookie, c.opts.UserIDCookie}
}

// Issue escribe las tres cookies con vencimiento now+TTL.
func (c *Cookies) Issue(w http.ResponseWriter, t Token, now time.Time) {
	http.SetCookie(w, cookies.Build(c.opts.UsernameCookie, t.Username, c.attrs, c.opts.TTL, now))
	http.SetCookie(w, cookies.Build(c.opts.RoleCookie, t.Role, c.attrs, c.opts.TTL, now))
	http.SetCookie(w, cookies.Build(c.opts.UserIDCookie, t.UserID, c.attrs, c.opts.TTL, now))
}

// Read devuelve el token cuando las tres cookies están presentes y no vacías.
func (c *Cookies) Read(r *http.Request) (Token, bool) {
	t := Token{
		Username: cookieValue(r, c.opts.UsernameCookie),
		Role:     cookieValue(r, c.opts.RoleCookie),
		UserID:   cookieValue(r, c.opts.UserIDCookie),
	}
	return t, t.Username != "" && t.Role != "" && t.UserID != ""
}

// Raw devuelve cada cookie por nombre; nil si no vino.
func (c *Cookies) Raw(r *http.Request) map[string]*string {
	out := make(map[string]*string, 3)
	for _, n := range c.Names() {
		if ck, err := r.Cookie(n); err == nil {
			v := ck.Value
			out[n] = &v
		} else {
			out[n] = nil
		}
	}
	return out
}

// Clear hace expirar las tres cookies.
func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, n := range c.Names() {
		http.SetCookie(w, cookies.Deletion(n, c.attrs))
	}
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
