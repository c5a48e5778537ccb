package domain

import (
	"fmt"
	"math"
	"time"
)

type Rounding string

const (
	RoundingNone        Rounding = "none"
	RoundingQuarterHour Rounding = "quarter-hour"
	RoundingHour        Rounding = "hour"
)

const DefaultHourlyRate = 8.00

// Tariff define o cálculo da taxa de permanência.
type Tariff struct {
	HourlyRate float64
	Rounding   Rounding
}

func DefaultTariff() Tariff {
	return Tariff{HourlyRate: DefaultHourlyRate, Rounding: RoundingNone}
}

func ParseRounding(s string) (Rounding, error) {
	switch Rounding(s) {
	case "", RoundingNone:
		return RoundingNone, nil
	case RoundingQuarterHour, RoundingHour:
		return Rounding(s), nil
	}
	return "", fmt.Errorf("arredondamento desconhecido: '%s'", s)
}

func (t Tariff) Validate() error {
	if !(t.HourlyRate > 0) || math.IsInf(t.HourlyRate, 0) {
		return fmt.Errorf("valor por hora deve ser positivo: %v", t.HourlyRate)
	}
	if _, err := ParseRounding(string(t.Rounding)); err != nil {
		return err
	}
	return nil
}

// BillableHours devolve as horas cobradas entre entrada e saída, aplicando o arredondamento.
func (t Tariff) BillableHours(entry, exit time.Time) (float64, error) {
	if exit.Before(entry) {
		return 0, fmt.Errorf("%w: entrada %s %s, saída %s %s", ErrExitBeforeEntry,
			FormatDate(entry), FormatClock(entry), FormatDate(exit), FormatClock(exit))
	}
	hours := exit.Sub(entry).Hours()
	switch t.Rounding {
	case RoundingQuarterHour:
		hours = math.Ceil(hours*4) / 4
	case RoundingHour:
		hours = math.Ceil(hours)
	}
	return hours, nil
}

// Fee calcula horas × valor por hora, sem arredondar o resultado.
func (t Tariff) Fee(entry, exit time.Time) (float64, error) {
	hours, err := t.BillableHours(entry, exit)
	if err != nil {
		return 0, err
	}
	return hours * t.HourlyRate, nil
}
