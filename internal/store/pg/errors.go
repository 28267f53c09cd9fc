package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

// mapError traduce errores de pgx a los sentinels de repository.
//
//   - sin filas            -> ErrNotFound
//   - unique violation     -> ErrConflict
//   - conexión, recursos, pool cerrado, timeouts -> ErrStoreUnavailable
//
// Los errores SQL restantes se devuelven envueltos sin clasificar.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return fmt.Errorf("pg: %s: %w: %s", op, repository.ErrConflict, pgErr.ConstraintName)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code):
			return fmt.Errorf("pg: %s: %w: %w", op, repository.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("pg: %s: %w", op, err)
	}

	// Sin PgError el servidor ni llegó a responder: red, dial, pool cerrado o contexto.
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("pg: %s: %w", op, err)
	}
	return fmt.Errorf("pg: %s: %w: %w", op, repository.ErrStoreUnavailable, err)
}
