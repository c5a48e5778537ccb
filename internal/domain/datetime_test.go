package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	at, err := ParseDateTime("06/03/2024", "14:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC), at)
	assert.Equal(t, "06/03/2024", FormatDate(at))
	assert.Equal(t, "14:00", FormatClock(at))

	for _, bad := range []string{"6/3/2024", "2024-03-06", "31/02/2024", "", "06/03/24"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
	for _, bad := range []string{"2pm", "24:00", "9:00", "14:60", ""} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, pair := range [][2]string{{"01/01/2024", "00:00"}, {"29/02/2024", "23:59"}, {"31/12/1999", "07:05"}} {
		at, err := ParseDateTime(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, pair[0], FormatDate(at))
		assert.Equal(t, pair[1], FormatClock(at))
	}
}

func TestDateKeyOrdersChronologically(t *testing.T) {
	a, _ := ParseDate("31/12/2023")
	b, _ := ParseDate("01/01/2024")
	assert.Less(t, DateKey(a), DateKey(b))
	assert.Equal(t, a, DateOnly(a.Add(23*time.Hour)))
}
