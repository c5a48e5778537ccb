package service

import (
	"context"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
)

type ReportService struct {
	engine *ReservationService
}

func NewReportService(engine *ReservationService) *ReportService {
	return &ReportService{engine: engine}
}

func parseReservationStatus(s string) (domain.ReservationStatus, error) {
	if st, ok := domain.ParseReservationStatus(s); ok {
		return st, nil
	}
	st, err := repository.ReservationStatusFromWire(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return st, nil
}

func contains(value, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// Query aplica os filtros opcionais. Intervalo de datas e status vão para o armazenamento;
// os filtros de texto são aplicados aqui, sem diferenciar maiúsculas.
func (s *ReportService) Query(ctx context.Context, f domain.ReportFilter) (*domain.Report, error) {
	var q domain.ReservationQuery
	if v := strings.TrimSpace(f.DateFrom); v != "" {
		from, err := domain.ParseDate(v)
		if err != nil {
			return nil, err
		}
		q.From = &from
	}
	if v := strings.TrimSpace(f.DateTo); v != "" {
		to, err := domain.ParseDate(v)
		if err != nil {
			return nil, err
		}
		q.To = &to
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		st, err := parseReservationStatus(v)
		if err != nil {
			return nil, err
		}
		q.Status = &st
	}

	reservations, err := s.engine.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{Rows: []domain.ReportRow{}}
	matched := make([]domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if !contains(r.ClientTaxID, f.ClientTaxID) ||
			!contains(r.ClientName, f.ClientName) ||
			!contains(r.VehiclePlate, f.VehiclePlate) ||
			!contains(r.VehicleModel, f.VehicleModel) ||
			!contains(r.BlockName, f.BlockName) ||
			!contains(r.SpotNumber, f.SpotNumber) ||
			!contains(domain.FormatBRL(r.FeeTotal), f.Fee) {
			continue
		}
		matched = append(matched, r)
	}
	domain.SortReservations(matched)

	for i := range matched {
		r := &matched[i]
		report.Rows = append(report.Rows, domain.ReportRow{
			ID:           r.ID,
			ClientTaxID:  r.ClientTaxID,
			ClientName:   r.ClientName,
			VehiclePlate: r.VehiclePlate,
			VehicleModel: r.VehicleModel,
			BlockName:    r.BlockName,
			SpotNumber:   r.SpotNumber,
			EntryDate:    r.EntryDate(),
			EntryTime:    r.EntryTime(),
			ExitDate:     r.ExitDate(),
			ExitTime:     r.ExitTime(),
			FeeTotal:     r.FeeTotal,
			FeeDisplay:   domain.FormatBRL(r.FeeTotal),
			Status:       r.Status,
		})
		report.FeeSum += r.FeeTotal
	}
	report.Count = len(report.Rows)
	report.FeeSumDisplay = domain.FormatBRL(report.FeeSum)
	return report, nil
}
