package errors

import (
	"math"
)

// CheckFinite checks if values contain NaN or Inf and returns a
// NumericalDegeneracyError if any non-finite value is found.
func CheckFinite(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalDegeneracyError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical degeneracy.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalDegeneracyError(operation, []float64{value}, iteration)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for numerical degeneracy.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, iteration int) error {
	var badValues []float64

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				badValues = append(badValues, v)
				if len(badValues) >= 10 {
					// Limit the number of collected values for error message
					break
				}
			}
		}
		if len(badValues) > 0 {
			break
		}
	}

	if len(badValues) > 0 {
		return NewNumericalDegeneracyError(operation, badValues, iteration)
	}

	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
