package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("ElasticNet", "Predict")

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if notFitted.ModelName != "ElasticNet" {
		t.Errorf("ModelName = %q, want %q", notFitted.ModelName, "ElasticNet")
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("ElasticNet.Fit", 10, 7, 0)

	var dim *DimensionError
	if !As(err, &dim) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
	if dim.Expected != 10 || dim.Got != 7 {
		t.Errorf("Expected/Got = %d/%d, want 10/7", dim.Expected, dim.Got)
	}
	if !strings.Contains(err.Error(), "rows") {
		t.Errorf("axis 0 should report rows: %s", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("alpha", "must be in [0, 1]", 1.5)

	var val *ValidationError
	if !As(err, &val) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if val.ParamName != "alpha" {
		t.Errorf("ParamName = %q, want %q", val.ParamName, "alpha")
	}
}

func TestNumericalDegeneracyError(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}
	err := NewNumericalDegeneracyError("coordinate_update", values, 3)

	var deg *NumericalDegeneracyError
	if !As(err, &deg) {
		t.Fatalf("expected NumericalDegeneracyError, got %T", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "coordinate_update") || !strings.Contains(msg, "iteration 3") {
		t.Errorf("unexpected message: %s", msg)
	}
	// 長い値リストは省略される
	if !strings.Contains(msg, "...") {
		t.Errorf("expected truncated value list: %s", msg)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	warning := NewConvergenceWarning("ElasticNet", 100, "max coefficient change 0.01 above tolerance")
	Warn(warning)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "failed to converge after 100 iterations") {
		t.Errorf("unexpected warning message: %s", captured.Error())
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("sweep", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("finite values must pass: %v", err)
	}

	nan := []float64{1, 2, 0}
	nan[2] = nan[2] / nan[2] // NaN
	if err := CheckFinite("sweep", nan, 0); err == nil {
		t.Error("NaN must be detected")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(6, 2); got != 3 {
		t.Errorf("SafeDivide(6, 2) = %v, want 3", got)
	}
}
