package domain

import "time"

// Clock fornece a data/hora atual. Horários são locais e ingênuos (sem fuso).
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
}

// FixedClock devolve sempre o mesmo instante; usado em testes.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
