package export

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Money formats an amount in pesos with thousands separators: ₱12,345.50.
func Money(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₱")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		b.WriteByte('0')
	}
	b.WriteString(frac)
	return b.String()
}

// Date formats a calendar date, or "" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateTime formats a timestamp in UTC, or "" for the zero time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
