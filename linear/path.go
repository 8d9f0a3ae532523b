package linear

import (
	"math"

	"github.com/mlondschien/glum/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Path holds the result of a pathwise fit: one coefficient vector and
// intercept per penalty strength, from the strongest penalty (all
// coefficients zero for alpha close to 1) down to the weakest.
type Path struct {
	Lambdas    []float64
	Coefs      [][]float64 // Coefs[k] are the coefficients fitted at Lambdas[k]
	Intercepts []float64
}

// LambdaPath builds a log-spaced grid of nLambdas penalty strengths for the
// given data, descending from the smallest lambda that keeps every
// coefficient at zero down to eps times that value.
//
// The upper end is derived from the weighted gradient at beta = 0 on
// mean-square-one scaled, centered columns: the largest absolute weighted
// correlation between a column and the centered response, divided by the
// mixing ratio alpha. For alpha near 0 the L1 threshold vanishes and no
// finite lambda zeroes the coefficients; alpha is floored at 1e-3 to keep
// the grid finite, following the reference glmnet path construction.
func LambdaPath(X, y mat.Matrix, alpha float64, nLambdas int, eps float64, weights []float64) ([]float64, error) {
	r, c := X.Dims()
	ry, _ := y.Dims()

	if r == 0 || c == 0 {
		return nil, errors.NewModelError("LambdaPath", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, errors.NewDimensionError("LambdaPath", r, ry, 0)
	}
	if alpha < 0 || alpha > 1 {
		return nil, errors.NewValidationError("alpha", "must be in [0, 1]", alpha)
	}
	if nLambdas < 1 {
		return nil, errors.NewValidationError("n_lambdas", "must be a positive integer", nLambdas)
	}
	if eps <= 0 || eps >= 1 {
		return nil, errors.NewValidationError("eps", "must be in (0, 1)", eps)
	}
	if weights != nil && len(weights) != r {
		return nil, errors.NewDimensionError("LambdaPath", r, len(weights), 0)
	}

	// Normalized sample weights.
	w := make([]float64, r)
	if weights == nil {
		for i := range w {
			w[i] = 1.0 / float64(r)
		}
	} else {
		var wSum float64
		for _, wi := range weights {
			if wi <= 0 {
				return nil, errors.NewValueError("LambdaPath", "sample weights must be positive")
			}
			wSum += wi
		}
		for i, wi := range weights {
			w[i] = wi / wSum
		}
	}

	var yMean float64
	for i := 0; i < r; i++ {
		yMean += w[i] * y.At(i, 0)
	}

	// Largest absolute weighted correlation over mean-square-one columns.
	var lambdaMax float64
	for j := 0; j < c; j++ {
		var colMean float64
		for i := 0; i < r; i++ {
			colMean += w[i] * X.At(i, j)
		}

		var dot, msq float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - colMean
			dot += w[i] * d * (y.At(i, 0) - yMean)
			msq += w[i] * d * d
		}
		if msq <= 0 {
			continue // constant column never activates
		}
		if z := math.Abs(dot) / math.Sqrt(msq); z > lambdaMax {
			lambdaMax = z
		}
	}
	if lambdaMax <= 0 {
		return nil, errors.NewValueError("LambdaPath", "response has no weighted correlation with any column")
	}

	lambdaMax /= math.Max(alpha, 1e-3)

	if nLambdas == 1 {
		return []float64{lambdaMax}, nil
	}

	lambdas := make([]float64, nLambdas)
	floats.LogSpan(lambdas, lambdaMax, lambdaMax*eps)
	return lambdas, nil
}

// FitPathwise fits the elastic net along a descending lambda grid,
// warm-starting every fit with the previous solution. Options apply to
// each individual fit; WithWarmStart is overridden internally.
func FitPathwise(X, y mat.Matrix, alpha float64, nLambdas int, eps float64, opts ...Option) (*Path, error) {
	// Probe the options for sample weights so the grid sees the same
	// weighting as the fits.
	probe := NewElasticNet(alpha, 0, opts...)

	lambdas, err := LambdaPath(X, y, alpha, nLambdas, eps, probe.sampleWeights)
	if err != nil {
		return nil, err
	}

	path := &Path{
		Lambdas:    lambdas,
		Coefs:      make([][]float64, len(lambdas)),
		Intercepts: make([]float64, len(lambdas)),
	}

	var warm []float64
	for k, lambda := range lambdas {
		fitOpts := opts
		if warm != nil {
			fitOpts = append(append([]Option{}, opts...), WithWarmStart(warm))
		}

		en := NewElasticNet(alpha, lambda, fitOpts...)
		if err := en.Fit(X, y); err != nil {
			return nil, errors.Wrapf(err, "pathwise fit failed at lambda %g", lambda)
		}

		path.Coefs[k] = en.GetWeights()
		path.Intercepts[k] = en.GetIntercept()
		warm = path.Coefs[k]
	}

	return path, nil
}
