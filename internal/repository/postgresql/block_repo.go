package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgBlockRepository struct {
	db *sql.DB
}

func NewPgBlockRepository(db *sql.DB) repository.BlockRepository {
	return &pgBlockRepository{db: db}
}

const blockColumns = `id, nome, capacidade, criado_em, atualizado_em`

func scanBlock(row interface{ Scan(...any) error }) (*domain.Block, error) {
	b := &domain.Block{}
	if err := row.Scan(&b.ID, &b.Name, &b.Capacity, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.In(time.UTC)
	b.UpdatedAt = b.UpdatedAt.In(time.UTC)
	return b, nil
}

func insertSpot(ctx context.Context, tx *sql.Tx, block *domain.Block, spot *domain.Spot) error {
	if spot.ID == "" {
		spot.ID = repository.NewID()
	}
	spot.BlockID = block.ID
	spot.BlockName = block.Name
	query := `INSERT INTO spots (id, bloco_id, bloco, numero_vaga, status, criado_em, atualizado_em)
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING criado_em, atualizado_em`
	err := tx.QueryRowContext(ctx, query,
		spot.ID, spot.BlockID, spot.BlockName, spot.Number, repository.SpotStatusToWire(spot.Status),
	).Scan(&spot.CreatedAt, &spot.UpdatedAt)
	if err != nil {
		return err
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return nil
}

func (r *pgBlockRepository) Create(ctx context.Context, block *domain.Block, spots []domain.Spot) (*domain.Block, error) {
	if block.ID == "" {
		block.ID = repository.NewID()
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `INSERT INTO blocks (id, nome, capacidade, criado_em, atualizado_em)
		           VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		           RETURNING criado_em, atualizado_em`
		if err := tx.QueryRowContext(ctx, query, block.ID, block.Name, block.Capacity).
			Scan(&block.CreatedAt, &block.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: bloco '%s' já existe", repository.ErrConflict, block.Name)
			}
			return err
		}
		for i := range spots {
			if err := insertSpot(ctx, tx, block, &spots[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("BlockRepository.Create", err)
	}
	block.CreatedAt = block.CreatedAt.In(time.UTC)
	block.UpdatedAt = block.UpdatedAt.In(time.UTC)
	return block, nil
}

func (r *pgBlockRepository) FindByID(ctx context.Context, id string) (*domain.Block, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	b, err := scanBlock(r.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("BlockRepository.FindByID", err)
	}
	return b, nil
}

func (r *pgBlockRepository) FindByName(ctx context.Context, name string) (*domain.Block, error) {
	b, err := scanBlock(r.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE nome = $1`, name))
	if err != nil {
		return nil, storeErr("BlockRepository.FindByName", err)
	}
	return b, nil
}

func (r *pgBlockRepository) FindAll(ctx context.Context) ([]domain.Block, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+blockColumns+` FROM blocks ORDER BY nome`)
	if err != nil {
		return nil, storeErr("BlockRepository.FindAll", err)
	}
	defer rows.Close()

	var blocks []domain.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, storeErr("BlockRepository.FindAll (scanning row)", err)
		}
		blocks = append(blocks, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("BlockRepository.FindAll (rows error)", err)
	}
	return blocks, nil
}

func (r *pgBlockRepository) Update(ctx context.Context, block *domain.Block, changes domain.SpotChangeSet) (*domain.Block, error) {
	if err := repository.ValidateID(block.ID); err != nil {
		return nil, err
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE blocks SET nome = $1, capacidade = $2, atualizado_em = CURRENT_TIMESTAMP
		           WHERE id = $3 RETURNING criado_em, atualizado_em`
		if err := tx.QueryRowContext(ctx, query, block.Name, block.Capacity, block.ID).
			Scan(&block.CreatedAt, &block.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: bloco '%s' já existe", repository.ErrConflict, block.Name)
			}
			return err
		}
		// nome denormalizado das vagas acompanha o bloco
		if _, err := tx.ExecContext(ctx,
			`UPDATE spots SET bloco = $1, atualizado_em = CURRENT_TIMESTAMP WHERE bloco_id = $2 AND bloco <> $1`,
			block.Name, block.ID); err != nil {
			return err
		}
		for i := range changes.Create {
			if err := insertSpot(ctx, tx, block, &changes.Create[i]); err != nil {
				return err
			}
		}
		for i := range changes.Update {
			spot := &changes.Update[i]
			if _, err := tx.ExecContext(ctx,
				`UPDATE spots SET status = $1, atualizado_em = CURRENT_TIMESTAMP WHERE id = $2`,
				repository.SpotStatusToWire(spot.Status), spot.ID); err != nil {
				return err
			}
			spot.BlockName = block.Name
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("BlockRepository.Update", err)
	}
	block.CreatedAt = block.CreatedAt.In(time.UTC)
	block.UpdatedAt = block.UpdatedAt.In(time.UTC)
	return block, nil
}

func (r *pgBlockRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if err := affectedOne(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE spots SET status = $1, atualizado_em = CURRENT_TIMESTAMP WHERE bloco_id = $2`,
			repository.SpotStatusToWire(domain.SpotRemoved), id)
		return err
	})
	return storeErr("BlockRepository.Delete", err)
}
