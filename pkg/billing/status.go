// Package billing derives a booking's payment position from its total and the
// payments recorded against it.
package billing

import "math"

type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPartial Status = "Partial"
	StatusPaid    Status = "Paid"
)

// DeriveStatus: Unpaid at zero, Paid once paid reaches total, Partial in between.
func DeriveStatus(paid, total float64) Status {
	switch {
	case paid <= 0:
		return StatusUnpaid
	case paid >= total:
		return StatusPaid
	default:
		return StatusPartial
	}
}

type Summary struct {
	Total    float64 `json:"total"`
	Paid     float64 `json:"paid"`
	Balance  float64 `json:"balance"`
	Progress int     `json:"progress"`
	Status   Status  `json:"status"`
}

// Payment is a recorded payment as billing sees it.
type Payment interface {
	PaidAmount() float64
	CountsTowardsPaid() bool
}

// Paid sums the counted payments. Amounts are added as whole cents so a
// history of 0.1 and 0.2 totals exactly 0.3.
func Paid[P Payment](payments []P) float64 {
	var total int64
	for _, p := range payments {
		if p.CountsTowardsPaid() {
			total += Cents(p.PaidAmount())
		}
	}
	return FromCents(total)
}

// Summarize totals the counted payments against total.
func Summarize[P Payment](total float64, payments []P) Summary {
	return SummaryFor(total, Paid(payments))
}

// Repaid moves a stored paid amount from one payment history to the next.
// Whatever the stored amount holds beyond the before history, such as an
// opening deposit, is carried over. The result is never negative.
func Repaid[P Payment](stored float64, before, after []P) float64 {
	paid := Cents(stored) - Cents(Paid(before)) + Cents(Paid(after))
	return FromCents(max(paid, 0))
}

func SummaryFor(total, paid float64) Summary {
	paid = roundCents(paid)
	total = roundCents(total)
	return Summary{
		Total:    total,
		Paid:     paid,
		Balance:  Balance(total, paid),
		Progress: Progress(total, paid),
		Status:   DeriveStatus(paid, total),
	}
}

// Balance is what remains to be paid, never negative.
func Balance(total, paid float64) float64 {
	return roundCents(math.Max(total-paid, 0))
}

// Progress is the paid share of total as a whole percentage in [0, 100].
func Progress(total, paid float64) int {
	if total <= 0 {
		if paid > 0 {
			return 100
		}
		return 0
	}
	pct := math.Round(paid / total * 100)
	return int(math.Max(0, math.Min(pct, 100)))
}

func roundCents(v float64) float64 {
	return FromCents(Cents(v))
}

// Cents converts an amount to whole cents, rounding half away from zero.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func FromCents(c int64) float64 {
	return float64(c) / 100
}
