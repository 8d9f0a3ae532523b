package linear

// Option is a function that configures ElasticNet
type Option func(*ElasticNet)

// WithNIters sets the number of full sweeps over all coefficients
func WithNIters(n int) Option {
	return func(en *ElasticNet) {
		en.nIters = n
	}
}

// WithTol enables an early stop: when the largest absolute coefficient
// change within a sweep drops below tol, the fit stops before exhausting
// the sweep budget. A tol of 0 (the default) runs all sweeps, matching
// the fixed-iteration contract of the solver.
func WithTol(tol float64) Option {
	return func(en *ElasticNet) {
		en.tol = tol
	}
}

// WithFitIntercept sets whether to model an intercept term
func WithFitIntercept(fit bool) Option {
	return func(en *ElasticNet) {
		en.fitIntercept = fit
	}
}

// WithStandardize sets whether Fit scales columns to weighted mean square
// one internally and maps the coefficients back afterwards. When disabled
// the caller is responsible for the normalization precondition.
func WithStandardize(standardize bool) Option {
	return func(en *ElasticNet) {
		en.standardize = standardize
	}
}

// WithSampleWeights sets per-observation weights. All weights must be
// positive; they are normalized to sum to one inside Fit.
func WithSampleWeights(weights []float64) Option {
	return func(en *ElasticNet) {
		en.sampleWeights = weights
	}
}

// WithPenaltyScaling sets a per-feature multiplier on the penalty.
// A scaling of s for feature j behaves like penalty strength lambda*s
// for that coefficient; a scaling of 0 leaves it unpenalized.
func WithPenaltyScaling(scaling []float64) Option {
	return func(en *ElasticNet) {
		en.penaltyScaling = scaling
	}
}

// WithWarmStart sets starting coefficients (on the original feature
// scale) instead of the all-zero vector.
func WithWarmStart(coef []float64) Option {
	return func(en *ElasticNet) {
		en.startCoef = coef
	}
}

// WithParallelThreshold sets the observation count above which the
// per-observation reductions run in parallel
func WithParallelThreshold(threshold int) Option {
	return func(en *ElasticNet) {
		en.parallelThreshold = threshold
	}
}
