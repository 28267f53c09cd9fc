package repository

import (
	"context"
	"time"
)

// User es una fila de la tabla de usuarios compartida con el resto del sistema.
//
// EncodedSecret es una codificación reversible (base64 de UTF-16LE), no un hash.
// Es una debilidad conocida que se conserva tal cual.
type User struct {
	ID            int64
	Username      string // NUsuario, único
	EncodedSecret string
	Email         string // único
	Role          string // Tipo
	DisplayName   string // NombreCompleto
	BirthDate     *time.Time
}

// UserRepository es el Credential Store.
type UserRepository interface {
	// GetByCredentials busca por (usuario, secreto ya codificado) con igualdad exacta.
	// Devuelve ErrNotFound si no hay coincidencia, sin distinguir cuál de los dos falló.
	GetByCredentials(ctx context.Context, username, encodedSecret string) (*User, error)

	// GetByEmail busca por email exacto.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername busca sólo por nombre de usuario. Es la consulta puntual
	// que usa la restauración de sesión en cada request.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdateSecretByEmail reemplaza el secreto codificado del usuario con ese email.
	// Devuelve ErrNotFound si ninguna fila fue afectada.
	UpdateSecretByEmail(ctx context.Context, email, encodedSecret string) error
}
