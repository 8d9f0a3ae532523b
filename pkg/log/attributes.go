// Package log provides structured logging for solver operations.
//
// This file defines the standard attribute keys used across the library.
// Using these keys keeps fit/predict logs consistent and filterable.
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples").
package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "ElasticNet", "WeightedLeastSquares", "MeanSquareScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "preprocessing", "metrics"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of observations (rows).
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns).
	FeaturesKey = "data.features"

	// WeightedKey reports whether non-uniform sample weights are in use.
	WeightedKey = "data.weighted"
)

// Coordinate descent progress.
const (
	// SweepKey is the index of the completed full sweep over the coefficients.
	SweepKey = "training.sweep"

	// MaxDeltaKey is the largest absolute coefficient change within a sweep,
	// the quantity the optional tolerance check compares against.
	MaxDeltaKey = "training.max_delta"

	// ActiveKey is the number of non-zero coefficients after a sweep.
	ActiveKey = "training.active"

	// LambdaKey is the overall penalty strength of the current fit.
	LambdaKey = "hyperparams.lambda"

	// AlphaKey is the L1/L2 mixing ratio of the current fit.
	AlphaKey = "hyperparams.alpha"

	// ConvergedKey reports whether the tolerance was reached within the
	// sweep budget. Only meaningful when a tolerance is configured.
	ConvergedKey = "training.converged"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the coefficient of determination for score operations.
	R2ScoreKey = "metrics.r2_score"
)

// Standard attribute value constants for common operations.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"
)
