package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for unique constraint failures
const uniqueViolation = "23505"

// mapError translates driver errors into repository sentinels.
// op names the failed operation for the wrapped message.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: constraint %s: %w", op, pqErr.Constraint, repositories.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// requireAffected returns ErrNotFound when an update or delete touched nothing
func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
