package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/cookies"
)

const (
	issuer  = "minibodega"
	keyInfo = "minibodega session v1"
)

// Options configura el Codec.
type Options struct {
	CookieName string
	Secret     string        // material de clave, >= 16 bytes
	MaxAge     time.Duration // vida de la firma desde la última escritura; 0 = sin límite
	Domain     string
	SameSite   http.SameSite
	Secure     bool
}

// Codec serializa la Session en una cookie JWT HS256 de sesión del navegador.
type Codec struct {
	name   string
	key    []byte
	maxAge time.Duration
	attrs  cookies.Attrs
	now    func() time.Time
}

type claims struct {
	Session Session `json:"s"`
	jwt.RegisteredClaims
}

// NewCodec deriva la clave de firma con HKDF-SHA256.
func NewCodec(opts Options) (*Codec, error) {
	if len(opts.Secret) < 16 {
		return nil, errors.New("session: secret must be at least 16 bytes")
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(opts.Secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("session: derive key: %w", err)
	}
	return &Codec{
		name:   opts.CookieName,
		key:    key,
		maxAge: opts.MaxAge,
		attrs: cookies.Attrs{
			Domain:   opts.Domain,
			SameSite: opts.SameSite,
			Secure:   opts.Secure,
			HTTPOnly: true,
		},
		now: time.Now,
	}, nil
}

// WithClock reemplaza el reloj. Para tests.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// CookieName devuelve el nombre de la cookie de sesión.
func (c *Codec) CookieName() string { return c.name }

// Load lee la sesión del request. Una cookie ausente, vencida o con firma
// inválida produce una sesión vacía; nunca falla.
func (c *Codec) Load(r *http.Request) *Session {
	ck, err := r.Cookie(c.name)
	if err != nil || ck.Value == "" {
		return New()
	}
	var cl claims
	_, err = jwt.ParseWithClaims(ck.Value, &cl,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// cookie inválida: se reemplaza o borra en la próxima escritura
		return &Session{fromCookie: true}
	}
	s := cl.Session
	s.fromCookie = true
	s.modified = false
	return &s
}

// Save escribe la cookie si la sesión cambió. Una sesión vaciada que venía de
// una cookie se borra del navegador.
func (c *Codec) Save(w http.ResponseWriter, s *Session) error {
	if s == nil || !s.modified {
		return nil
	}
	if s.empty() {
		if s.fromCookie {
			http.SetCookie(w, cookies.Deletion(c.name, c.attrs))
		}
		s.modified = false
		return nil
	}

	now := c.now()
	cl := claims{
		Session: *s,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.maxAge > 0 {
		cl.ExpiresAt = jwt.NewNumericDate(now.Add(c.maxAge))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
	if err != nil {
		return fmt.Errorf("session: sign: %w", err)
	}

	// sin Expires: la sesión muere con el navegador
	http.SetCookie(w, cookies.Build(c.name, signed, c.attrs, 0, now))
	s.modified = false
	s.fromCookie = true
	return nil
}
