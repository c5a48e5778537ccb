package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v4"
)

func TestReservationExitPlaceholders(t *testing.T) {
	r := Reservation{EntryAt: time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)}
	assert.Equal(t, NoValue, r.ExitDate())
	assert.Equal(t, NoValue, r.ExitTime())

	r.ExitAt = null.TimeFrom(time.Date(2024, 3, 7, 1, 45, 0, 0, time.UTC))
	assert.Equal(t, "07/03/2024", r.ExitDate())
	assert.Equal(t, "01:45", r.ExitTime())
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, ReservationReserved.IsActive())
	assert.True(t, ReservationOccupied.IsActive())
	assert.True(t, ReservationFinalized.IsTerminal())
	assert.False(t, ReservationCancelled.IsActive())
	assert.Equal(t, SpotOccupied, SpotHintFor(ReservationOccupied))
	assert.Equal(t, SpotFree, SpotHintFor(ReservationCancelled))

	_, ok := ParseReservationStatus("Reservado")
	assert.False(t, ok)
}

func TestSortReservations(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	rs := []Reservation{
		{ID: "d", BlockName: "A", SpotNumber: "10", EntryAt: day(6, 8)},
		{ID: "e", BlockName: "A", SpotNumber: "1", EntryAt: day(7, 8)},
		{ID: "b", BlockName: "A", SpotNumber: "2", EntryAt: day(6, 20)},
		{ID: "c", BlockName: "A", SpotNumber: "2", EntryAt: day(6, 21)},
		{ID: "a", BlockName: "A", SpotNumber: "1", EntryAt: day(6, 23)},
		{ID: "f", BlockName: "B", SpotNumber: "1", EntryAt: day(6, 1)},
	}
	SortReservations(rs)

	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "f", "e"}, ids)
}

func TestNormalizeSpotNumber(t *testing.T) {
	n, ok := NormalizeSpotNumber(" 02 ")
	assert.True(t, ok)
	assert.Equal(t, "2", n)
	for _, bad := range []string{"0", "-1", "A1", ""} {
		_, ok := NormalizeSpotNumber(bad)
		assert.False(t, ok, bad)
	}
}
