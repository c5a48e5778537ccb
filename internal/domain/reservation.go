package domain

import (
	"sort"
	"time"

	"gopkg.in/guregu/null.v4"
)

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "Reserved"
	ReservationOccupied  ReservationStatus = "Occupied"
	ReservationFinalized ReservationStatus = "Finalized"
	ReservationCancelled ReservationStatus = "Cancelled"
)

// ActiveStatuses são os status que ocupam a vaga na data de entrada.
var ActiveStatuses = []ReservationStatus{ReservationReserved, ReservationOccupied}

func (s ReservationStatus) IsActive() bool {
	return s == ReservationReserved || s == ReservationOccupied
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationFinalized || s == ReservationCancelled
}

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case ReservationReserved, ReservationOccupied, ReservationFinalized, ReservationCancelled:
		return ReservationStatus(s), true
	}
	return "", false
}

// SpotHintFor devolve a indicação de status da vaga correspondente ao status da reserva.
func SpotHintFor(s ReservationStatus) SpotStatus {
	switch s {
	case ReservationReserved:
		return SpotReserved
	case ReservationOccupied:
		return SpotOccupied
	}
	return SpotFree
}

// Reservation guarda cópias do nome do cliente e do modelo do veículo para fidelidade histórica.
type Reservation struct {
	ID           string            `json:"id"`
	ClientTaxID  string            `json:"client_tax_id"`
	ClientName   string            `json:"client_name"`
	VehiclePlate string            `json:"vehicle_plate"`
	VehicleModel string            `json:"vehicle_model"`
	BlockName    string            `json:"block"`
	SpotNumber   string            `json:"spot_number"`
	EntryAt      time.Time         `json:"entry_at"`
	ExitAt       null.Time         `json:"exit_at"`
	FeeTotal     float64           `json:"fee_total"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (r *Reservation) EntryDate() string { return FormatDate(r.EntryAt) }
func (r *Reservation) EntryTime() string { return FormatClock(r.EntryAt) }

func (r *Reservation) ExitDate() string {
	if !r.ExitAt.Valid {
		return NoValue
	}
	return FormatDate(r.ExitAt.Time)
}

func (r *Reservation) ExitTime() string {
	if !r.ExitAt.Valid {
		return NoValue
	}
	return FormatClock(r.ExitAt.Time)
}

type CreateReservationDTO struct {
	ClientTaxID  string `json:"client_tax_id" binding:"required"`
	VehiclePlate string `json:"vehicle_plate" binding:"required"`
	BlockName    string `json:"block" binding:"required"`
	SpotNumber   string `json:"spot_number" binding:"required"`
	EntryDate    string `json:"entry_date" binding:"required"`
	EntryTime    string `json:"entry_time" binding:"required"`
}

type FinalizeReservationDTO struct {
	ExitDate string `json:"exit_date" binding:"required"`
	ExitTime string `json:"exit_time" binding:"required"`
}

// ReservationQuery é o pré-filtro aplicado pelo armazenamento; filtros de texto ficam no serviço.
type ReservationQuery struct {
	From   *time.Time
	To     *time.Time
	Status *ReservationStatus
}

// SortReservations ordena por data de entrada, bloco e número da vaga (numérico).
func SortReservations(rs []Reservation) {
	sort.SliceStable(rs, func(i, j int) bool {
		di, dj := DateOnly(rs[i].EntryAt), DateOnly(rs[j].EntryAt)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if rs[i].BlockName != rs[j].BlockName {
			return rs[i].BlockName < rs[j].BlockName
		}
		ni, nj := SpotNumberValue(rs[i].SpotNumber), SpotNumberValue(rs[j].SpotNumber)
		if ni != nj {
			return ni < nj
		}
		return rs[i].EntryAt.Before(rs[j].EntryAt)
	})
}
