package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
	"time"

	"github.com/lib/pq"
	"gopkg.in/guregu/null.v4"
)

type pgReservationRepository struct {
	db *sql.DB
}

func NewPgReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &pgReservationRepository{db: db}
}

const reservationColumns = `id, cliente_cpf, cliente_nome, veiculo_placa, veiculo_modelo, bloco, numero_vaga,
	entrada, saida, valor_total, status, criado_em, atualizado_em`

const reservationOrder = ` ORDER BY data_entrada, bloco, CAST(numero_vaga AS INTEGER), entrada`

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	r := &domain.Reservation{}
	var status string
	var exit null.Time
	if err := row.Scan(
		&r.ID, &r.ClientTaxID, &r.ClientName, &r.VehiclePlate, &r.VehicleModel, &r.BlockName, &r.SpotNumber,
		&r.EntryAt, &exit, &r.FeeTotal, &status, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	st, err := repository.ReservationStatusFromWire(status)
	if err != nil {
		return nil, err
	}
	r.Status = st
	// horário ingênuo: o relógio de parede é mantido e reexpresso em UTC
	r.EntryAt = naive(r.EntryAt)
	if exit.Valid {
		r.ExitAt = null.TimeFrom(naive(exit.Time))
	}
	r.CreatedAt = r.CreatedAt.In(time.UTC)
	r.UpdatedAt = r.UpdatedAt.In(time.UTC)
	return r, nil
}

func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func activeStatuses() any {
	return pq.Array(repository.ActiveStatusesWire())
}

// setSpotHint atualiza a indicação da vaga pelo nome do bloco; vagas removidas não mudam.
func setSpotHint(ctx context.Context, tx *sql.Tx, block, number string, status domain.SpotStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE spots SET status = $1, atualizado_em = CURRENT_TIMESTAMP
		 WHERE bloco = $2 AND numero_vaga = $3 AND status <> $4`,
		repository.SpotStatusToWire(status), block, number, repository.SpotStatusToWire(domain.SpotRemoved))
	return err
}

func (r *pgReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if res.ID == "" {
		res.ID = repository.NewID()
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// reservations_ativa_idx rejeita a segunda reserva ativa com unique_violation
		query := `INSERT INTO reservations (id, cliente_cpf, cliente_nome, veiculo_placa, veiculo_modelo, bloco, numero_vaga,
		           data_entrada, entrada, saida, valor_total, status, criado_em, atualizado_em)
		           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		           RETURNING criado_em, atualizado_em`
		if err := tx.QueryRowContext(ctx, query,
			res.ID, res.ClientTaxID, res.ClientName, res.VehiclePlate, res.VehicleModel, res.BlockName, res.SpotNumber,
			domain.DateOnly(res.EntryAt), res.EntryAt, res.ExitAt, res.FeeTotal, repository.ReservationStatusToWire(res.Status),
		).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: vaga %s-%s ocupada em %s", repository.ErrConflict, res.BlockName, res.SpotNumber, res.EntryDate())
			}
			return err
		}
		return setSpotHint(ctx, tx, res.BlockName, res.SpotNumber, domain.SpotHintFor(res.Status))
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.Create", err)
	}
	res.CreatedAt = res.CreatedAt.In(time.UTC)
	res.UpdatedAt = res.UpdatedAt.In(time.UTC)
	return res, nil
}

func (r *pgReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	res, err := scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("ReservationRepository.FindByID", err)
	}
	return res, nil
}

func (r *pgReservationRepository) FindActiveBySlot(ctx context.Context, block, spot string, date time.Time) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE bloco = $1 AND numero_vaga = $2 AND data_entrada = $3 AND status = ANY($4)`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, block, spot, domain.DateOnly(date), activeStatuses()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoActiveReservation
	}
	if err != nil {
		return nil, storeErr("ReservationRepository.FindActiveBySlot", err)
	}
	return res, nil
}

func (r *pgReservationRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error) {
	return r.query(ctx, "ReservationRepository.FindActiveByDate",
		`SELECT `+reservationColumns+` FROM reservations WHERE data_entrada = $1 AND status = ANY($2)`+reservationOrder,
		domain.DateOnly(date), activeStatuses())
}

func (r *pgReservationRepository) FindActiveByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	return r.query(ctx, "ReservationRepository.FindActiveByPlate",
		`SELECT `+reservationColumns+` FROM reservations WHERE UPPER(veiculo_placa) = UPPER($1) AND status = ANY($2)`+reservationOrder,
		plate, activeStatuses())
}

func (r *pgReservationRepository) Find(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.From != nil {
		add("data_entrada >= $%d", domain.DateOnly(*q.From))
	}
	if q.To != nil {
		add("data_entrada <= $%d", domain.DateOnly(*q.To))
	}
	if q.Status != nil {
		add("status = $%d", repository.ReservationStatusToWire(*q.Status))
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return r.query(ctx, "ReservationRepository.Find", query+reservationOrder, args...)
}

func (r *pgReservationRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, storeErr(op+" (scanning row)", err)
		}
		out = append(out, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(op+" (rows error)", err)
	}
	return out, nil
}

func (r *pgReservationRepository) Transition(ctx context.Context, res *domain.Reservation, from []domain.ReservationStatus) (*domain.Reservation, error) {
	if err := repository.ValidateID(res.ID); err != nil {
		return nil, err
	}
	wire := make([]string, 0, len(from))
	for _, s := range from {
		wire = append(wire, repository.ReservationStatusToWire(s))
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE reservations SET status = $1, saida = $2, valor_total = $3, atualizado_em = CURRENT_TIMESTAMP
		           WHERE id = $4 AND status = ANY($5) RETURNING criado_em, atualizado_em`
		err := tx.QueryRowContext(ctx, query,
			repository.ReservationStatusToWire(res.Status), res.ExitAt, res.FeeTotal, res.ID, pq.Array(wire),
		).Scan(&res.CreatedAt, &res.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, res.ID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return repository.ErrNotFound
			}
			return repository.ErrConflict
		}
		if err != nil {
			return err
		}
		return setSpotHint(ctx, tx, res.BlockName, res.SpotNumber, domain.SpotHintFor(res.Status))
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.Transition", err)
	}
	res.CreatedAt = res.CreatedAt.In(time.UTC)
	res.UpdatedAt = res.UpdatedAt.In(time.UTC)
	return res, nil
}

func (r *pgReservationRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var block, number, status string
		err := tx.QueryRowContext(ctx,
			`DELETE FROM reservations WHERE id = $1 RETURNING bloco, numero_vaga, status`, id,
		).Scan(&block, &number, &status)
		if err != nil {
			return err
		}
		st, err := repository.ReservationStatusFromWire(status)
		if err != nil {
			return err
		}
		if !st.IsActive() {
			return nil
		}
		return setSpotHint(ctx, tx, block, number, domain.SpotFree)
	})
	return storeErr("ReservationRepository.Delete", err)
}
