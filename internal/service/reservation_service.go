package service

import (
	"context"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"slices"
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// MapNotifier recebe um aviso a cada mutação; quem exibe o mapa de vagas deve recarregá-lo.
// Interface aqui para evitar dependência circular com o pacote api.
type MapNotifier interface {
	BroadcastMapChange(change domain.MapChange)
}

// ReservationService é a máquina de estados das reservas:
//
//	∅ -create-> Reserved -occupy-> Occupied
//	Reserved|Occupied -finalize-> Finalized
//	Reserved|Occupied -cancel-> Cancelled
//
// A passagem por Occupied é opcional: finalize aceita Reserved e Occupied.
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	directory       *DirectoryService
	catalog         *CatalogService
	tariff          domain.Tariff
	clock           domain.Clock
	notifier        MapNotifier
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	directory *DirectoryService,
	catalog *CatalogService,
	tariff domain.Tariff,
	clock domain.Clock,
) *ReservationService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ReservationService{
		reservationRepo: reservationRepo,
		directory:       directory,
		catalog:         catalog,
		tariff:          tariff,
		clock:           clock,
	}
}

func (s *ReservationService) SetNotifier(n MapNotifier) {
	s.notifier = n
}

func (s *ReservationService) Tariff() domain.Tariff { return s.tariff }

func (s *ReservationService) notify(reason string, r *domain.Reservation) {
	if s.notifier == nil || r == nil {
		return
	}
	s.notifier.BroadcastMapChange(domain.MapChange{
		Type:      "map_invalidated",
		Reason:    reason,
		BlockName: r.BlockName,
		Date:      r.EntryDate(),
	})
}

func (s *ReservationService) Create(ctx context.Context, dto domain.CreateReservationDTO) (*domain.Reservation, error) {
	entry, err := domain.ParseDateTime(dto.EntryDate, dto.EntryTime)
	if err != nil {
		return nil, err
	}

	client, err := s.directory.FindClientByTaxID(ctx, dto.ClientTaxID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: CPF '%s'", domain.ErrUnknownClient, dto.ClientTaxID)
		}
		return nil, err
	}
	vehicle, err := s.directory.FindVehicleByPlate(ctx, dto.VehiclePlate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: placa '%s'", domain.ErrUnknownVehicle, dto.VehiclePlate)
		}
		return nil, err
	}
	if vehicle.OwnerTaxID != client.TaxID {
		return nil, fmt.Errorf("%w: placa '%s' não pertence ao CPF '%s'", domain.ErrUnknownVehicle, vehicle.Plate, client.TaxID)
	}
	if vehicle.Status != domain.VehicleActive {
		return nil, fmt.Errorf("%w: placa '%s' está removida", domain.ErrUnknownVehicle, vehicle.Plate)
	}

	spot, err := s.catalog.ResolveSpot(ctx, dto.BlockName, dto.SpotNumber)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		ClientTaxID:  client.TaxID,
		ClientName:   client.Name,
		VehiclePlate: vehicle.Plate,
		VehicleModel: vehicle.Model,
		BlockName:    spot.BlockName,
		SpotNumber:   spot.Number,
		EntryAt:      entry,
		Status:       domain.ReservationReserved,
	}
	created, err := s.reservationRepo.Create(ctx, reservation)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s-%s em %s", domain.ErrSlotTaken, spot.BlockName, spot.Number, domain.FormatDate(entry))
		}
		return nil, err
	}
	s.notify("reservation_created", created)
	return created, nil
}

// transition carrega a reserva, confere o status atual e grava a mudança de forma condicional.
func (s *ReservationService) transition(ctx context.Context, id string, from []domain.ReservationStatus, reason string, apply func(r *domain.Reservation) error) (*domain.Reservation, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(from, r.Status) {
		return nil, fmt.Errorf("%w: reserva está %s", domain.ErrBadState, r.Status)
	}
	if err := apply(r); err != nil {
		return nil, err
	}
	updated, err := s.reservationRepo.Transition(ctx, r, from)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: reserva alterada concorrentemente", domain.ErrBadState)
		}
		return nil, err
	}
	s.notify(reason, updated)
	return updated, nil
}

// Occupy registra a chegada do veículo.
func (s *ReservationService) Occupy(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.transition(ctx, id, []domain.ReservationStatus{domain.ReservationReserved}, "reservation_occupied",
		func(r *domain.Reservation) error {
			r.Status = domain.ReservationOccupied
			return nil
		})
}

func (s *ReservationService) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.ActiveStatuses, "reservation_cancelled",
		func(r *domain.Reservation) error {
			r.Status = domain.ReservationCancelled
			return nil
		})
}

// Finalize encerra a reserva com a saída informada e calcula a taxa.
func (s *ReservationService) Finalize(ctx context.Context, id string, dto domain.FinalizeReservationDTO) (*domain.Reservation, error) {
	exit, err := domain.ParseDateTime(dto.ExitDate, dto.ExitTime)
	if err != nil {
		return nil, err
	}
	return s.FinalizeAt(ctx, id, exit)
}

// FinalizeNow usa o relógio para a saída.
func (s *ReservationService) FinalizeNow(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.FinalizeAt(ctx, id, s.clock.Now())
}

// FinalizeAt trunca a saída para o minuto, que é a precisão persistida.
func (s *ReservationService) FinalizeAt(ctx context.Context, id string, exit time.Time) (*domain.Reservation, error) {
	exit = exit.Truncate(time.Minute)
	return s.transition(ctx, id, domain.ActiveStatuses, "reservation_finalized",
		func(r *domain.Reservation) error {
			fee, err := s.tariff.Fee(r.EntryAt, exit)
			if err != nil {
				return err
			}
			r.ExitAt = null.TimeFrom(exit)
			r.FeeTotal = fee
			r.Status = domain.ReservationFinalized
			return nil
		})
}

func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.reservationRepo.FindByID(ctx, id)
}

// Delete é a exclusão administrativa; vale para qualquer status.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify("reservation_deleted", r)
	return nil
}

// ActiveReservationOn devolve a reserva ativa da vaga na data, ou nil se não houver.
func (s *ReservationService) ActiveReservationOn(ctx context.Context, blockName, number string, date time.Time) (*domain.Reservation, error) {
	normalized, ok := domain.NormalizeSpotNumber(number)
	if !ok {
		return nil, fmt.Errorf("%w: número '%s'", domain.ErrUnknownSpot, number)
	}
	r, err := s.reservationRepo.FindActiveBySlot(ctx, strings.TrimSpace(blockName), normalized, domain.DateOnly(date))
	if errors.Is(err, repository.ErrNoActiveReservation) {
		return nil, nil
	}
	return r, err
}

func (s *ReservationService) ActiveReservationsOn(ctx context.Context, date time.Time) ([]domain.Reservation, error) {
	return s.reservationRepo.FindActiveByDate(ctx, domain.DateOnly(date))
}

func (s *ReservationService) ActiveByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	return s.reservationRepo.FindActiveByPlate(ctx, domain.NormalizePlate(plate))
}

func (s *ReservationService) Find(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	return s.reservationRepo.Find(ctx, q)
}

func (s *ReservationService) Now() time.Time { return s.clock.Now() }
