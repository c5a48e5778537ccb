package postgresql

import (
	"context"
	"database/sql"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgSpotRepository struct {
	db *sql.DB
}

func NewPgSpotRepository(db *sql.DB) repository.SpotRepository {
	return &pgSpotRepository{db: db}
}

const spotColumns = `id, bloco_id, bloco, numero_vaga, status, criado_em, atualizado_em`

// numero_vaga é texto; a ordenação numérica é feita no SQL.
const spotOrder = ` ORDER BY bloco, CAST(numero_vaga AS INTEGER)`

func scanSpot(row interface{ Scan(...any) error }) (*domain.Spot, error) {
	s := &domain.Spot{}
	var status string
	if err := row.Scan(&s.ID, &s.BlockID, &s.BlockName, &s.Number, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := repository.SpotStatusFromWire(status)
	if err != nil {
		return nil, err
	}
	s.Status = st
	s.CreatedAt = s.CreatedAt.In(time.UTC)
	s.UpdatedAt = s.UpdatedAt.In(time.UTC)
	return s, nil
}

func (r *pgSpotRepository) FindByID(ctx context.Context, id string) (*domain.Spot, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	s, err := scanSpot(r.db.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM spots WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("SpotRepository.FindByID", err)
	}
	return s, nil
}

func (r *pgSpotRepository) FindByBlock(ctx context.Context, blockID string, includeRemoved bool) ([]domain.Spot, error) {
	if err := repository.ValidateID(blockID); err != nil {
		return nil, err
	}
	query := `SELECT ` + spotColumns + ` FROM spots WHERE bloco_id = $1`
	args := []any{blockID}
	if !includeRemoved {
		query += ` AND status <> $2`
		args = append(args, repository.SpotStatusToWire(domain.SpotRemoved))
	}
	return r.query(ctx, "SpotRepository.FindByBlock", query+spotOrder, args...)
}

func (r *pgSpotRepository) FindByBlockAndNumber(ctx context.Context, blockID string, number string) (*domain.Spot, error) {
	if err := repository.ValidateID(blockID); err != nil {
		return nil, err
	}
	s, err := scanSpot(r.db.QueryRowContext(ctx,
		`SELECT `+spotColumns+` FROM spots WHERE bloco_id = $1 AND numero_vaga = $2`, blockID, number))
	if err != nil {
		return nil, storeErr("SpotRepository.FindByBlockAndNumber", err)
	}
	return s, nil
}

func (r *pgSpotRepository) FindAll(ctx context.Context, includeRemoved bool) ([]domain.Spot, error) {
	query := `SELECT ` + spotColumns + ` FROM spots`
	var args []any
	if !includeRemoved {
		query += ` WHERE status <> $1`
		args = append(args, repository.SpotStatusToWire(domain.SpotRemoved))
	}
	return r.query(ctx, "SpotRepository.FindAll", query+spotOrder, args...)
}

func (r *pgSpotRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Spot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var spots []domain.Spot
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, storeErr(op+" (scanning row)", err)
		}
		spots = append(spots, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(op+" (rows error)", err)
	}
	return spots, nil
}

func (r *pgSpotRepository) UpdateStatus(ctx context.Context, id string, status domain.SpotStatus) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE spots SET status = $1, atualizado_em = CURRENT_TIMESTAMP WHERE id = $2`,
		repository.SpotStatusToWire(status), id)
	if err != nil {
		return storeErr("SpotRepository.UpdateStatus", err)
	}
	return storeErr("SpotRepository.UpdateStatus", affectedOne(res))
}
