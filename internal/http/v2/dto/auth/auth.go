// Package auth contiene DTOs para login y logout.
package auth

import "net/url"

// LoginRequest es el formulario de login. Acepta form-urlencoded o JSON
// con los mismos nombres de campo.
type LoginRequest struct {
	Username   string `json:"nusuario"`
	Secret     string `json:"contrasena"`
	RememberMe bool   `json:"recuerdame"`
}

// BindForm llena el request desde un formulario. El checkbox cuenta como
// marcado con cualquier valor no vacío.
func (l *LoginRequest) BindForm(v url.Values) {
	l.Username = v.Get("nusuario")
	if l.Username == "" {
		l.Username = v.Get("usuario")
	}
	l.Secret = v.Get("contrasena")
	l.RememberMe = v.Get("recuerdame") != ""
}
