package service

import (
	"context"
	"parking_reservation/internal/domain"
	"sort"
	"time"
)

// MapService projeta o estado de cada vaga numa data a partir das reservas ativas.
// O status gravado na vaga é só indicativo e não é consultado aqui.
type MapService struct {
	catalog *CatalogService
	engine  *ReservationService
}

func NewMapService(catalog *CatalogService, engine *ReservationService) *MapService {
	return &MapService{catalog: catalog, engine: engine}
}

func slotKey(block, number string) string { return block + "\x00" + number }

// Project aceita a data em dd/MM/yyyy; block vazio projeta todos os blocos.
func (s *MapService) Project(ctx context.Context, date string, block string) ([]domain.SpotMapEntry, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.ProjectOn(ctx, d, block)
}

func (s *MapService) ProjectOn(ctx context.Context, date time.Time, block string) ([]domain.SpotMapEntry, error) {
	var (
		spots []domain.Spot
		err   error
	)
	if block != "" {
		spots, err = s.catalog.ListSpots(ctx, block, false)
	} else {
		spots, err = s.catalog.ListAllSpots(ctx, false)
	}
	if err != nil {
		return nil, err
	}

	active, err := s.engine.ActiveReservationsOn(ctx, date)
	if err != nil {
		return nil, err
	}
	bySlot := make(map[string]domain.Reservation, len(active))
	for _, r := range active {
		bySlot[slotKey(r.BlockName, r.SpotNumber)] = r
	}

	sort.SliceStable(spots, func(i, j int) bool {
		if spots[i].BlockName != spots[j].BlockName {
			return spots[i].BlockName < spots[j].BlockName
		}
		return domain.SpotNumberValue(spots[i].Number) < domain.SpotNumberValue(spots[j].Number)
	})

	entries := make([]domain.SpotMapEntry, 0, len(spots))
	for _, spot := range spots {
		entry := domain.SpotMapEntry{BlockName: spot.BlockName, SpotNumber: spot.Number, State: domain.StateFree}
		if r, ok := bySlot[slotKey(spot.BlockName, spot.Number)]; ok {
			entry.ReservationID = r.ID
			if r.Status == domain.ReservationOccupied {
				entry.State = domain.StateOccupied
			} else {
				entry.State = domain.StateReserved
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Summary conta vagas livres, reservadas e ocupadas por bloco.
func (s *MapService) Summary(ctx context.Context, date string) ([]domain.BlockSummary, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.SummaryOn(ctx, d)
}

func (s *MapService) SummaryOn(ctx context.Context, date time.Time) ([]domain.BlockSummary, error) {
	entries, err := s.ProjectOn(ctx, date, "")
	if err != nil {
		return nil, err
	}
	var out []domain.BlockSummary
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1].BlockName != e.BlockName {
			out = append(out, domain.BlockSummary{BlockName: e.BlockName})
		}
		sum := &out[len(out)-1]
		switch e.State {
		case domain.StateFree:
			sum.Free++
		case domain.StateReserved:
			sum.Reserved++
		case domain.StateOccupied:
			sum.Occupied++
		}
	}
	return out, nil
}
