package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	tests := map[float64]string{
		0:          "R$ 0,00",
		28:         "R$ 28,00",
		8.5:        "R$ 8,50",
		1234.567:   "R$ 1.234,57",
		1000000:    "R$ 1.000.000,00",
		-12.3:      "-R$ 12,30",
		0.004:      "R$ 0,00",
		2.6666666:  "R$ 2,67",
		999.999999: "R$ 1.000,00",
	}
	for v, want := range tests {
		assert.Equal(t, want, FormatBRL(v), "%v", v)
	}
}

func TestTariffFee(t *testing.T) {
	entry := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		rounding Rounding
		exit     time.Time
		want     float64
	}{
		{"exact hours", RoundingNone, entry.Add(3*time.Hour + 30*time.Minute), 28},
		{"fractional", RoundingNone, entry.Add(20 * time.Minute), 8.0 / 3},
		{"zero", RoundingNone, entry, 0},
		{"quarter hour", RoundingQuarterHour, entry.Add(20 * time.Minute), 4},
		{"hour", RoundingHour, entry.Add(61 * time.Minute), 16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fee, err := Tariff{HourlyRate: DefaultHourlyRate, Rounding: tc.rounding}.Fee(entry, tc.exit)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, fee, 1e-9)
		})
	}

	_, err := DefaultTariff().Fee(entry, entry.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrExitBeforeEntry)
}

func TestTariffFeeIsMonotonic(t *testing.T) {
	entry := time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)
	for _, rounding := range []Rounding{RoundingNone, RoundingQuarterHour, RoundingHour} {
		tariff := Tariff{HourlyRate: 7.5, Rounding: rounding}
		prev := -1.0
		for m := 0; m <= 300; m += 7 {
			fee, err := tariff.Fee(entry, entry.Add(time.Duration(m)*time.Minute))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, fee, prev)
			prev = fee
		}
	}
}

func TestTariffValidate(t *testing.T) {
	assert.NoError(t, DefaultTariff().Validate())
	assert.Error(t, Tariff{HourlyRate: 0}.Validate())
	assert.Error(t, Tariff{HourlyRate: 5, Rounding: "day"}.Validate())

	r, err := ParseRounding("")
	require.NoError(t, err)
	assert.Equal(t, RoundingNone, r)
}
