package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

const vehicleColumns = `id, placa, modelo, cor, categoria, cliente_cpf, status, criado_em, atualizado_em`

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var category, status string
	if err := row.Scan(&v.ID, &v.Plate, &v.Model, &v.Color, &category, &v.OwnerTaxID, &status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if v.Category, err = repository.CategoryFromWire(category); err != nil {
		return nil, err
	}
	if v.Status, err = repository.VehicleStatusFromWire(status); err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.In(time.UTC)
	v.UpdatedAt = v.UpdatedAt.In(time.UTC)
	return v, nil
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if vehicle.ID == "" {
		vehicle.ID = repository.NewID()
	}
	query := `INSERT INTO vehicles (id, placa, modelo, cor, categoria, cliente_cpf, status, criado_em, atualizado_em)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING criado_em, atualizado_em`
	err := r.db.QueryRowContext(ctx, query,
		vehicle.ID, vehicle.Plate, vehicle.Model, vehicle.Color, repository.CategoryToWire(vehicle.Category),
		vehicle.OwnerTaxID, repository.VehicleStatusToWire(vehicle.Status),
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: placa '%s' já cadastrada", repository.ErrConflict, vehicle.Plate)
		}
		return nil, storeErr("VehicleRepository.Create", err)
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	vehicle.UpdatedAt = vehicle.UpdatedAt.In(time.UTC)
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("VehicleRepository.FindByID", err)
	}
	return v, nil
}

func (r *pgVehicleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE placa = $1`, plate))
	if err != nil {
		return nil, storeErr("VehicleRepository.FindByPlate", err)
	}
	return v, nil
}

func (r *pgVehicleRepository) FindByOwner(ctx context.Context, taxID string) ([]domain.Vehicle, error) {
	return r.query(ctx, "VehicleRepository.FindByOwner",
		`SELECT `+vehicleColumns+` FROM vehicles WHERE cliente_cpf = $1 ORDER BY placa`, taxID)
}

func (r *pgVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	return r.query(ctx, "VehicleRepository.FindAll", `SELECT `+vehicleColumns+` FROM vehicles ORDER BY placa`)
}

func (r *pgVehicleRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, storeErr(op+" (scanning row)", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(op+" (rows error)", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if err := repository.ValidateID(vehicle.ID); err != nil {
		return nil, err
	}
	query := `UPDATE vehicles SET placa = $1, modelo = $2, cor = $3, categoria = $4, cliente_cpf = $5, status = $6,
	           atualizado_em = CURRENT_TIMESTAMP WHERE id = $7 RETURNING criado_em, atualizado_em`
	err := r.db.QueryRowContext(ctx, query,
		vehicle.Plate, vehicle.Model, vehicle.Color, repository.CategoryToWire(vehicle.Category),
		vehicle.OwnerTaxID, repository.VehicleStatusToWire(vehicle.Status), vehicle.ID,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return nil, storeErr("VehicleRepository.Update", err)
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	vehicle.UpdatedAt = vehicle.UpdatedAt.In(time.UTC)
	return vehicle, nil
}

func (r *pgVehicleRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return storeErr("VehicleRepository.Delete", err)
	}
	return storeErr("VehicleRepository.Delete", affectedOne(res))
}
