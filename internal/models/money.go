package models

import "math"

// Round2 rounds a rupee amount to paise. All stored monetary fields go
// through this before persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
