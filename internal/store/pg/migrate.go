package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	migrations "github.com/Rock1274/MiniBodegaWeb/migrations/postgres"
)

// Seams para tests.
var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

// gooseLogger adapta zap al logger de goose.
type gooseLogger struct{ s *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }

// Migrate corre un comando de goose (up | down | status) con las migraciones embebidas.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string, log *zap.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return runMigrations(ctx, db, command, log)
}

func runMigrations(ctx context.Context, db *sql.DB, command string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{s: log.Sugar()})
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("pg: goose dialect: %w", err)
	}

	var err error
	switch command {
	case "up", "":
		err = gooseUpContext(ctx, db, ".")
	case "down":
		err = gooseDownContext(ctx, db, ".")
	case "status":
		err = gooseStatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("pg: unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("pg: migrate %s: %w", command, err)
	}
	return nil
}
