package postgresql

import (
	"database/sql"
	"errors"
	"fmt"
	"parking_reservation/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// isUniqueViolation reconhece o erro dos dois drivers suportados.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrInvalidID),
		errors.Is(err, repository.ErrNoActiveReservation):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return repository.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", repository.ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrStore, op, err)
}

// affectedOne devolve ErrNotFound quando o comando não alterou nenhuma linha.
func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
