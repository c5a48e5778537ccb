package repository

import (
	"context"
	"errors"
	"parking_reservation/internal/domain"
	"time"
)

// Modos de falha do armazenamento.
var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrConflict  = errors.New("atualização condicional não encontrou registro compatível")
	ErrInvalidID = errors.New("identificador inválido")
	ErrStore     = errors.New("falha no armazenamento")

	ErrNoActiveReservation = errors.New("nenhuma reserva ativa para os dados informados")
)

// Em todos os repositórios, violações de unicidade são devolvidas como ErrConflict.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByTaxID(ctx context.Context, taxID string) (*domain.Client, error)
	FindAll(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	FindByOwner(ctx context.Context, taxID string) ([]domain.Vehicle, error)
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type BlockRepository interface {
	// Create grava o bloco e suas vagas na mesma transação.
	Create(ctx context.Context, block *domain.Block, spots []domain.Spot) (*domain.Block, error)
	FindByID(ctx context.Context, id string) (*domain.Block, error)
	FindByName(ctx context.Context, name string) (*domain.Block, error)
	FindAll(ctx context.Context) ([]domain.Block, error)
	// Update grava o bloco e aplica as mudanças de vagas na mesma transação.
	Update(ctx context.Context, block *domain.Block, changes domain.SpotChangeSet) (*domain.Block, error)
	// Delete remove o bloco e marca todas as suas vagas como Removed; reservas não são tocadas.
	Delete(ctx context.Context, id string) error
}

type SpotRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Spot, error)
	FindByBlock(ctx context.Context, blockID string, includeRemoved bool) ([]domain.Spot, error)
	FindByBlockAndNumber(ctx context.Context, blockID string, number string) (*domain.Spot, error)
	FindAll(ctx context.Context, includeRemoved bool) ([]domain.Spot, error)
	UpdateStatus(ctx context.Context, id string, status domain.SpotStatus) error
}

type ReservationRepository interface {
	// Create insere a reserva somente se não houver outra ativa em (bloco, vaga, data de entrada);
	// caso contrário devolve ErrConflict. A indicação de status da vaga é atualizada na mesma transação.
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	// FindActiveBySlot devolve ErrNoActiveReservation quando não há reserva ativa.
	FindActiveBySlot(ctx context.Context, block, spot string, date time.Time) (*domain.Reservation, error)
	FindActiveByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error)
	FindActiveByPlate(ctx context.Context, plate string) ([]domain.Reservation, error)
	Find(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error)
	// Transition grava r somente se o status atual estiver em from; caso contrário ErrConflict.
	Transition(ctx context.Context, r *domain.Reservation, from []domain.ReservationStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}
