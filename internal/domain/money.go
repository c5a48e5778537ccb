package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatBRL formata um valor no padrão brasileiro: R$ 1.234,56
func FormatBRL(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if v < 0 && cents != 0 {
		sign = "-"
	}
	fracStr := strconv.FormatInt(frac, 10)
	if frac < 10 {
		fracStr = "0" + fracStr
	}
	return sign + "R$ " + b.String() + "," + fracStr
}
