// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/8wontae4/cost-calculation/pkg/constants"
)

// Trunc drops the fractional part of val, rounding toward zero, the way an
// integer cast does. Used wherever a named output is reported as a whole
// number of won or units.
func Trunc(val float64) int64 {
	return int64(math.Trunc(val))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Share returns each value as a percentage of their sum. A zero sum yields
// all zeros.
func Share(values ...float64) []float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	shares := make([]float64, len(values))
	for i, v := range values {
		shares[i] = CalculatePercentage(v, total)
	}
	return shares
}
