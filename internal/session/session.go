// Package session es el estado por conexión del navegador: identidad,
// flags del flujo de recuperación y mensajes flash.
//
// El estado vive en el cliente dentro de una cookie firmada (ver Codec);
// no hay tabla de sesiones en el servidor.
package session

import (
	"context"
	"sort"
	"strconv"
)

// Categorías de flash usadas por la UI.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash es un mensaje de una sola lectura.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Session es el estado serializado en la cookie.
type Session struct {
	Username      string  `json:"usuario,omitempty"`
	Role          string  `json:"tipo,omitempty"`
	UserID        int64   `json:"user_id,omitempty"`
	ResetEmail    string  `json:"reset_email,omitempty"`
	ResetVerified bool    `json:"reset_verified,omitempty"`
	Flashes       []Flash `json:"_flashes,omitempty"`

	modified   bool
	fromCookie bool
}

// New devuelve una sesión vacía.
func New() *Session { return &Session{} }

// Authenticated indica si hay identidad en la sesión.
func (s *Session) Authenticated() bool { return s != nil && s.Username != "" }

// SetIdentity escribe los claims de identidad.
func (s *Session) SetIdentity(username, role string, userID int64) {
	s.Username, s.Role, s.UserID = username, role, userID
	s.modified = true
}

// Clear borra todo el contenido, flashes incluidos.
func (s *Session) Clear() {
	*s = Session{modified: true, fromCookie: s.fromCookie}
}

// StartReset deja el flujo en "esperando código" para email.
// Un inicio nuevo invalida una verificación previa.
func (s *Session) StartReset(email string) {
	s.ResetEmail = email
	s.ResetVerified = false
	s.modified = true
}

// MarkResetVerified deja el flujo en "esperando nuevo secreto".
func (s *Session) MarkResetVerified() {
	s.ResetVerified = true
	s.modified = true
}

// ClearReset vuelve el flujo a Start.
func (s *Session) ClearReset() {
	s.ResetEmail = ""
	s.ResetVerified = false
	s.modified = true
}

// AddFlash encola un mensaje para la próxima respuesta.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes devuelve y consume los mensajes pendientes.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.modified = true
	return out
}

// Modified indica si hay cambios que persistir.
func (s *Session) Modified() bool { return s.modified }

func (s *Session) empty() bool {
	return s.Username == "" && s.Role == "" && s.UserID == 0 &&
		s.ResetEmail == "" && !s.ResetVerified && len(s.Flashes) == 0
}

// Keys lista las claves presentes, en orden.
func (s *Session) Keys() []string {
	keys := []string{}
	for k := range s.Values() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values es la vista clave/valor de la sesión, con los nombres de clave de la cookie.
func (s *Session) Values() map[string]string {
	v := map[string]string{}
	if s.Username != "" {
		v["usuario"] = s.Username
	}
	if s.Role != "" {
		v["tipo"] = s.Role
	}
	if s.UserID != 0 {
		v["user_id"] = strconv.FormatInt(s.UserID, 10)
	}
	if s.ResetEmail != "" {
		v["reset_email"] = s.ResetEmail
	}
	if s.ResetVerified {
		v["reset_verified"] = "true"
	}
	if len(s.Flashes) > 0 {
		v["_flashes"] = strconv.Itoa(len(s.Flashes))
	}
	return v
}

type ctxKey struct{}

// ToContext adjunta la sesión al contexto.
func ToContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext devuelve la sesión del request o nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
