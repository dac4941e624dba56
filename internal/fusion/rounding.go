package fusion

import (
	"github.com/shopspring/decimal"
)

// Timestamp precision bounds (decimal digits).
const (
	MinTimestampPrecision     = 1
	MaxTimestampPrecision     = 3
	DefaultTimestampPrecision = 2
)

// RoundHalfEven rounds x to the given number of decimal digits using
// round-half-to-even (banker's rounding) on the exact decimal rendering of
// x. Operating on the shortest decimal representation rather than the raw
// binary value keeps results reproducible across implementations:
// RoundHalfEven(2.345, 2) == 2.34 and RoundHalfEven(2.355, 2) == 2.36.
//
// digits outside [MinTimestampPrecision, MaxTimestampPrecision] are clamped.
func RoundHalfEven(x float64, digits int) float64 {
	if digits < MinTimestampPrecision {
		digits = MinTimestampPrecision
	}
	if digits > MaxTimestampPrecision {
		digits = MaxTimestampPrecision
	}
	// NewFromFloat uses the shortest decimal representation that round-trips,
	// so literals like 2.355 round as a human would expect.
	return decimal.NewFromFloat(x).RoundBank(int32(digits)).InexactFloat64()
}
