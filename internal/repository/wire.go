package repository

import (
	"fmt"
	"parking_reservation/internal/domain"
	"strings"

	"github.com/google/uuid"
)

// Conversão entre os enums do domínio e as strings persistidas. Na leitura as grafias
// antigas (feminino/masculino, português/inglês) são aceitas; na escrita usa-se a canônica.

var reservationStatusWire = map[domain.ReservationStatus]string{
	domain.ReservationReserved:  "Reservado",
	domain.ReservationOccupied:  "Ocupado",
	domain.ReservationFinalized: "Finalizado",
	domain.ReservationCancelled: "Cancelado",
}

var reservationStatusAliases = map[string]domain.ReservationStatus{
	"reservado": domain.ReservationReserved, "reservada": domain.ReservationReserved, "reserved": domain.ReservationReserved,
	"ocupado": domain.ReservationOccupied, "ocupada": domain.ReservationOccupied, "occupied": domain.ReservationOccupied,
	"finalizado": domain.ReservationFinalized, "finalizada": domain.ReservationFinalized, "finalized": domain.ReservationFinalized,
	"cancelado": domain.ReservationCancelled, "cancelada": domain.ReservationCancelled, "cancelled": domain.ReservationCancelled,
}

func ReservationStatusToWire(s domain.ReservationStatus) string {
	return reservationStatusWire[s]
}

func ReservationStatusFromWire(s string) (domain.ReservationStatus, error) {
	if st, ok := reservationStatusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("status de reserva desconhecido: '%s'", s)
}

// ActiveStatusesWire lista as strings persistidas dos status ativos.
func ActiveStatusesWire() []string {
	return []string{ReservationStatusToWire(domain.ReservationReserved), ReservationStatusToWire(domain.ReservationOccupied)}
}

var spotStatusWire = map[domain.SpotStatus]string{
	domain.SpotFree:     "Livre",
	domain.SpotReserved: "Reservada",
	domain.SpotOccupied: "Ocupada",
	domain.SpotRemoved:  "Removida",
}

var spotStatusAliases = map[string]domain.SpotStatus{
	"livre": domain.SpotFree, "free": domain.SpotFree,
	"reservada": domain.SpotReserved, "reservado": domain.SpotReserved, "reserved": domain.SpotReserved,
	"ocupada": domain.SpotOccupied, "ocupado": domain.SpotOccupied, "occupied": domain.SpotOccupied,
	"removida": domain.SpotRemoved, "removido": domain.SpotRemoved, "removed": domain.SpotRemoved,
}

func SpotStatusToWire(s domain.SpotStatus) string { return spotStatusWire[s] }

func SpotStatusFromWire(s string) (domain.SpotStatus, error) {
	if st, ok := spotStatusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("status de vaga desconhecido: '%s'", s)
}

var categoryWire = map[domain.VehicleCategory]string{
	domain.CategoryCar:        "Carro",
	domain.CategoryMotorcycle: "Moto",
	domain.CategoryTruck:      "Caminhão",
}

var categoryAliases = map[string]domain.VehicleCategory{
	"carro": domain.CategoryCar, "car": domain.CategoryCar,
	"moto": domain.CategoryMotorcycle, "motocicleta": domain.CategoryMotorcycle, "motorcycle": domain.CategoryMotorcycle,
	"caminhão": domain.CategoryTruck, "caminhao": domain.CategoryTruck, "truck": domain.CategoryTruck,
}

func CategoryToWire(c domain.VehicleCategory) string { return categoryWire[c] }

func CategoryFromWire(s string) (domain.VehicleCategory, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("categoria desconhecida: '%s'", s)
}

var vehicleStatusWire = map[domain.VehicleStatus]string{
	domain.VehicleActive:  "Ativo",
	domain.VehicleRemoved: "Removido",
}

func VehicleStatusToWire(s domain.VehicleStatus) string { return vehicleStatusWire[s] }

func VehicleStatusFromWire(s string) (domain.VehicleStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ativo", "active", "":
		return domain.VehicleActive, nil
	case "removido", "removed":
		return domain.VehicleRemoved, nil
	}
	return "", fmt.Errorf("status de veículo desconhecido: '%s'", s)
}

var roleWire = map[domain.Role]string{
	domain.RoleAdmin:     "admin",
	domain.RoleManager:   "gerente",
	domain.RoleAttendant: "atendente",
}

func RoleToWire(r domain.Role) string { return roleWire[r] }

func RoleFromWire(s string) (domain.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return domain.RoleAdmin, nil
	case "gerente", "manager":
		return domain.RoleManager, nil
	case "atendente", "attendant", "operador":
		return domain.RoleAttendant, nil
	}
	return "", fmt.Errorf("perfil desconhecido: '%s'", s)
}

// ValidateID verifica se o identificador é um UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	return nil
}

func NewID() string {
	return uuid.NewString()
}
