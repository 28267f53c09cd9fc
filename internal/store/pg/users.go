package pg

import (
	"context"
	"strings"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

type userRepo struct {
	db DB
}

// fecha_nacimiento viaja como texto para no depender del tipo DATE al escanear.
const userColumns = `id_usuario, nusuario, contrasena, COALESCE(email, ''), tipo,
	COALESCE(nombre_completo, ''), COALESCE(to_char(fecha_nacimiento, 'YYYY-MM-DD'), '')`

func (r *userRepo) scanOne(ctx context.Context, op, query string, args ...any) (*repository.User, error) {
	var (
		u     repository.User
		birth string
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.EncodedSecret, &u.Email, &u.Role, &u.DisplayName, &birth,
	)
	if err != nil {
		return nil, mapError(op, err)
	}
	if birth != "" {
		if t, perr := time.Parse("2006-01-02", birth); perr == nil {
			u.BirthDate = &t
		}
	}
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	return &u, nil
}

func (r *userRepo) GetByCredentials(ctx context.Context, username, encodedSecret string) (*repository.User, error) {
	return r.scanOne(ctx, "get user by credentials",
		`SELECT `+userColumns+` FROM usuario WHERE nusuario = $1 AND contrasena = $2`,
		username, encodedSecret)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.scanOne(ctx, "get user by email",
		`SELECT `+userColumns+` FROM usuario WHERE email = $1`,
		email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	return r.scanOne(ctx, "get user by username",
		`SELECT `+userColumns+` FROM usuario WHERE nusuario = $1`,
		username)
}

func (r *userRepo) UpdateSecretByEmail(ctx context.Context, email, encodedSecret string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE usuario SET contrasena = $1 WHERE email = $2`,
		encodedSecret, email)
	if err != nil {
		return mapError("update secret", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
