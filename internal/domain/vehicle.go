package domain

import (
	"fmt"
	"strings"
	"time"
)

type VehicleCategory string

const (
	CategoryCar        VehicleCategory = "Car"
	CategoryMotorcycle VehicleCategory = "Motorcycle"
	CategoryTruck      VehicleCategory = "Truck"
)

func ParseCategory(s string) (VehicleCategory, error) {
	switch VehicleCategory(s) {
	case CategoryCar, CategoryMotorcycle, CategoryTruck:
		return VehicleCategory(s), nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrInvalidCategory, s)
}

type VehicleStatus string

const (
	VehicleActive  VehicleStatus = "Active"
	VehicleRemoved VehicleStatus = "Removed"
)

type Vehicle struct {
	ID         string          `json:"id"`
	Plate      string          `json:"plate"`
	Model      string          `json:"model"`
	Color      string          `json:"color"`
	Category   VehicleCategory `json:"category"`
	OwnerTaxID string          `json:"owner_tax_id"`
	Status     VehicleStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type VehicleDTO struct {
	Plate      string `json:"plate" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Color      string `json:"color"`
	Category   string `json:"category" binding:"required"`
	OwnerTaxID string `json:"owner_tax_id" binding:"required"`
	Status     string `json:"status,omitempty"`
}

// NormalizePlate remove espaços nas pontas e converte para maiúsculas.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
