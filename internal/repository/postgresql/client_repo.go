package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgClientRepository struct {
	db *sql.DB
}

func NewPgClientRepository(db *sql.DB) repository.ClientRepository {
	return &pgClientRepository{db: db}
}

const clientColumns = `id, nome, cpf, telefone, email, endereco, criado_em, atualizado_em`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	c := &domain.Client{}
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.In(time.UTC)
	c.UpdatedAt = c.UpdatedAt.In(time.UTC)
	return c, nil
}

func (r *pgClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client.ID == "" {
		client.ID = repository.NewID()
	}
	query := `INSERT INTO clients (id, nome, cpf, telefone, email, endereco, criado_em, atualizado_em)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING criado_em, atualizado_em`
	err := r.db.QueryRowContext(ctx, query,
		client.ID, client.Name, client.TaxID, client.Phone, client.Email, client.Address,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: CPF '%s' já cadastrado", repository.ErrConflict, client.TaxID)
		}
		return nil, storeErr("ClientRepository.Create", err)
	}
	client.CreatedAt = client.CreatedAt.In(time.UTC)
	client.UpdatedAt = client.UpdatedAt.In(time.UTC)
	return client, nil
}

func (r *pgClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("ClientRepository.FindByID", err)
	}
	return c, nil
}

func (r *pgClientRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE cpf = $1`, taxID))
	if err != nil {
		return nil, storeErr("ClientRepository.FindByTaxID", err)
	}
	return c, nil
}

func (r *pgClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY nome`)
	if err != nil {
		return nil, storeErr("ClientRepository.FindAll", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, storeErr("ClientRepository.FindAll (scanning row)", err)
		}
		clients = append(clients, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("ClientRepository.FindAll (rows error)", err)
	}
	return clients, nil
}

func (r *pgClientRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := repository.ValidateID(client.ID); err != nil {
		return nil, err
	}
	query := `UPDATE clients SET nome = $1, cpf = $2, telefone = $3, email = $4, endereco = $5,
	           atualizado_em = CURRENT_TIMESTAMP WHERE id = $6 RETURNING criado_em, atualizado_em`
	err := r.db.QueryRowContext(ctx, query,
		client.Name, client.TaxID, client.Phone, client.Email, client.Address, client.ID,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, storeErr("ClientRepository.Update", err)
	}
	client.CreatedAt = client.CreatedAt.In(time.UTC)
	client.UpdatedAt = client.UpdatedAt.In(time.UTC)
	return client, nil
}

func (r *pgClientRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return storeErr("ClientRepository.Delete", err)
	}
	return storeErr("ClientRepository.Delete", affectedOne(res))
}
