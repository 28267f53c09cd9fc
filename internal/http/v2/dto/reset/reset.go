// Package reset contiene DTOs de los tres pasos de recuperación.
package reset

import "net/url"

// RequestCodeRequest es el paso 1.
type RequestCodeRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest es el paso 2.
type VerifyCodeRequest struct {
	Code string `json:"codigo"`
}

// ResetSecretRequest es el paso 3.
type ResetSecretRequest struct {
	NewSecret     string `json:"nueva_contrasena"`
	ConfirmSecret string `json:"confirmar_contrasena"`
}

func (q *RequestCodeRequest) BindForm(v url.Values) { q.Email = v.Get("email") }

func (q *VerifyCodeRequest) BindForm(v url.Values) { q.Code = v.Get("codigo") }

func (q *ResetSecretRequest) BindForm(v url.Values) {
	q.NewSecret = v.Get("nueva_contrasena")
	q.ConfirmSecret = v.Get("confirmar_contrasena")
}
