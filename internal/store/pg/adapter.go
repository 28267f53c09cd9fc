// Package pg implementa el Credential Store y el historial de códigos sobre PostgreSQL.
//
// Cada operación toma una conexión del pool y la devuelve al terminar
// (QueryRow libera en Scan, Exec al completar), también en los caminos de error.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

// DB es el subconjunto de pgxpool.Pool que usan los repositorios.
// pgxmock.PgxPoolIface lo satisface en tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Options configura el pool.
type Options struct {
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// Store agrupa el pool y los repositorios construidos sobre él.
type Store struct {
	pool   *pgxpool.Pool
	users  *userRepo
	tokens *resetTokenRepo
}

// Connect abre el pool y verifica conectividad con un ping.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if opts.MinConns > 0 {
		poolCfg.MinConns = int32(opts.MinConns)
	} else {
		poolCfg.MinConns = 2
	}
	if opts.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", mapError("ping", err))
	}

	return &Store{
		pool:   pool,
		users:  &userRepo{db: pool},
		tokens: &resetTokenRepo{db: pool},
	}, nil
}

// Users devuelve el Credential Store.
func (s *Store) Users() repository.UserRepository { return s.users }

// ResetTokens devuelve el historial de códigos.
func (s *Store) ResetTokens() repository.ResetTokenRepository { return s.tokens }

// Pool expone el pool para métricas y migraciones.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping verifica que la base responde. Lo usa /readyz.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return mapError("ping", err)
	}
	return nil
}

// Close cierra el pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// NewUserRepository construye el Credential Store sobre cualquier DB.
func NewUserRepository(db DB) repository.UserRepository { return &userRepo{db: db} }

// NewResetTokenRepository construye el historial de códigos sobre cualquier DB.
func NewResetTokenRepository(db DB) repository.ResetTokenRepository {
	return &resetTokenRepo{db: db}
}
