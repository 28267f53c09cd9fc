package pg

import (
	"context"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

type resetTokenRepo struct {
	db DB
}

// Create agrega una fila. Las anteriores del mismo email quedan como están.
func (r *resetTokenRepo) Create(ctx context.Context, t repository.ResetToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reset_tokens (email, token, expiry) VALUES ($1, $2, $3)`,
		t.Email, t.Code, t.ExpiresAt)
	return mapError("create reset token", err)
}

// Latest devuelve la fila de expiración más lejana: "la última expiración gana".
func (r *resetTokenRepo) Latest(ctx context.Context, email string) (*repository.ResetToken, error) {
	var t repository.ResetToken
	err := r.db.QueryRow(ctx,
		`SELECT email, token, expiry FROM reset_tokens
		 WHERE email = $1
		 ORDER BY expiry DESC, id DESC
		 LIMIT 1`,
		email).Scan(&t.Email, &t.Code, &t.ExpiresAt)
	if err != nil {
		return nil, mapError("latest reset token", err)
	}
	return &t, nil
}
