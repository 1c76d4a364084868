package sanitizer

import "math"

// NormalizeAmount rounds to centavos. Negative and non-finite values become 0.
func NormalizeAmount(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0
	}
	return math.Round(amount*100) / 100
}

func ClampPercent(p int) int {
	return max(0, min(p, 100))
}
