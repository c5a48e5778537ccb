package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"

	// NoValue marca data/hora de saída ausente.
	NoValue = "-"
)

// ParseDate interpreta dd/MM/yyyy. O resultado é meia-noite em UTC, usado como horário ingênuo.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: '%s' (esperado dd/MM/aaaa)", ErrInvalidDate, s)
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: '%s' (esperado dd/MM/aaaa)", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseClock interpreta HH:MM e devolve o deslocamento desde a meia-noite.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(TimeLayout) {
		return 0, fmt.Errorf("%w: '%s' (esperado HH:MM)", ErrInvalidTime, s)
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' (esperado HH:MM)", ErrInvalidTime, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ParseDateTime combina data e hora em um único instante.
func ParseDateTime(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(offset), nil
}

func FormatDate(t time.Time) string  { return t.Format(DateLayout) }
func FormatClock(t time.Time) string { return t.Format(TimeLayout) }

// DateOnly trunca para a meia-noite do mesmo dia.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey ordena lexicograficamente na mesma ordem cronológica (yyyymmdd).
func DateKey(t time.Time) string { return t.Format("20060102") }
