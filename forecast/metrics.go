package forecast

import "math"

// Log1p is the forward transform applied to raw sales before training:
// ln(1+x). It keeps the heavily skewed, non-negative sales values well
// behaved in model space.
func Log1p(v float64) float64 {
	return math.Log1p(v)
}

// Expm1 is the inverse of Log1p: exp(x)-1. Model outputs arrive in log
// space and must pass through this before any financial aggregation.
func Expm1(v float64) float64 {
	return math.Expm1(v)
}

// expm1Slice applies Expm1 to every value, returning a new slice.
func expm1Slice(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Expm1(v)
	}
	return out
}

// MeanAbsoluteError returns the average absolute difference between paired
// actual and predicted values.
func MeanAbsoluteError(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, ErrLengthMismatch
	}
	if len(actual) == 0 {
		return 0, ErrEmptySeries
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual)), nil
}
