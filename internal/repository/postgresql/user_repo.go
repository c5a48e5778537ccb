package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) repository.UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, password, role, criado_em, atualizado_em`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := repository.RoleFromWire(role)
	if err != nil {
		return nil, err
	}
	user.Role = r
	user.CreatedAt = user.CreatedAt.In(time.UTC)
	user.UpdatedAt = user.UpdatedAt.In(time.UTC)
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	query := `INSERT INTO users (id, username, password, role, criado_em, atualizado_em)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING criado_em, atualizado_em`
	// a senha é gravada como informada
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Password, repository.RoleToWire(user.Role)).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: usuário '%s' já existe", repository.ErrConflict, user.Username)
		}
		return nil, storeErr("UserRepository.Create", err)
	}
	user.CreatedAt = user.CreatedAt.In(time.UTC)
	user.UpdatedAt = user.UpdatedAt.In(time.UTC)
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, storeErr("UserRepository.FindByID", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, storeErr("UserRepository.FindByUsername", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, storeErr("UserRepository.FindAll", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("UserRepository.FindAll (scanning row)", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("UserRepository.FindAll (rows error)", err)
	}
	return users, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := repository.ValidateID(user.ID); err != nil {
		return nil, err
	}
	query := `UPDATE users SET username = $1, password = $2, role = $3, atualizado_em = CURRENT_TIMESTAMP
	           WHERE id = $4 RETURNING criado_em, atualizado_em`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Password, repository.RoleToWire(user.Role), user.ID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, storeErr("UserRepository.Update", err)
	}
	user.CreatedAt = user.CreatedAt.In(time.UTC)
	user.UpdatedAt = user.UpdatedAt.In(time.UTC)
	return user, nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storeErr("UserRepository.Delete", err)
	}
	return storeErr("UserRepository.Delete", affectedOne(res))
}
