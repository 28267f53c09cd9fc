package repository

import (
	"context"
	"time"
)

// ResetToken es un código de recuperación emitido para un email.
// El historial es append-only: varias filas por email pueden coexistir y
// sólo la de expiración más reciente es la autoritativa.
type ResetToken struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// ResetTokenRepository persiste y consulta códigos de recuperación.
type ResetTokenRepository interface {
	// Create agrega una fila nueva. Nunca borra ni invalida las anteriores.
	Create(ctx context.Context, t ResetToken) error

	// Latest devuelve la fila con mayor ExpiresAt para el email.
	// Devuelve ErrNotFound si no hay filas.
	Latest(ctx context.Context, email string) (*ResetToken, error)
}
