package service

import (
	"context"
	"encoding/json"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
	"time"
)

// GateService traduz eventos da cancela em transições de reserva.
type GateService struct {
	engine *ReservationService
	panel  *PanelService
}

func NewGateService(engine *ReservationService, panel *PanelService) *GateService {
	return &GateService{engine: engine, panel: panel}
}

// eventTime mantém o horário de parede do evento, sem converter fuso.
func (s *GateService) eventTime(ts string) (time.Time, error) {
	if strings.TrimSpace(ts) == "" {
		return s.engine.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp '%s'", domain.ErrInvalidInput, ts)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// HandleEvent processa o corpo de uma mensagem da fila. Um erro ErrPanelPublish significa que
// a reserva foi alterada mas o painel não foi atualizado.
func (s *GateService) HandleEvent(ctx context.Context, body string) (*domain.GateOutcome, error) {
	var event domain.GateEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return nil, fmt.Errorf("%w: evento da cancela: %v", domain.ErrInvalidInput, err)
	}
	plate := domain.NormalizePlate(event.Plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: evento sem placa", domain.ErrInvalidInput)
	}
	at, err := s.eventTime(event.Timestamp)
	if err != nil {
		return nil, err
	}

	active, err := s.engine.ActiveByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	var updated *domain.Reservation
	switch event.EventType {
	case domain.GateArrival:
		r := pickArrival(active, at)
		if r == nil {
			return nil, fmt.Errorf("%w: chegada da placa %s em %s", repository.ErrNoActiveReservation, plate, domain.FormatDate(at))
		}
		updated, err = s.engine.Occupy(ctx, r.ID)
	case domain.GateDeparture:
		r := pickDeparture(active, at)
		if r == nil {
			return nil, fmt.Errorf("%w: saída da placa %s", repository.ErrNoActiveReservation, plate)
		}
		updated, err = s.engine.FinalizeAt(ctx, r.ID, at)
	default:
		return nil, fmt.Errorf("%w: tipo de evento '%s'", domain.ErrInvalidInput, event.EventType)
	}
	if err != nil {
		return nil, err
	}

	outcome := &domain.GateOutcome{
		EventID:       event.EventID,
		ReservationID: updated.ID,
		Status:        updated.Status,
		Fee:           updated.FeeTotal,
		At:            at,
	}
	if err := s.panel.PublishSummary(ctx, updated.EntryAt); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// pickArrival escolhe a reserva ainda Reserved com entrada na data do evento.
func pickArrival(active []domain.Reservation, at time.Time) *domain.Reservation {
	day := domain.DateOnly(at)
	for i := range active {
		r := &active[i]
		if r.Status == domain.ReservationReserved && domain.DateOnly(r.EntryAt).Equal(day) {
			return r
		}
	}
	return nil
}

// pickDeparture prefere a reserva Occupied; senão a Reserved mais antiga que já começou.
func pickDeparture(active []domain.Reservation, at time.Time) *domain.Reservation {
	var reserved *domain.Reservation
	for i := range active {
		r := &active[i]
		if r.EntryAt.After(at) {
			continue
		}
		if r.Status == domain.ReservationOccupied {
			return r
		}
		if reserved == nil {
			reserved = r
		}
	}
	return reserved
}
