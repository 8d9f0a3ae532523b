// Package glum provides coordinate-descent solvers for penalized weighted
// least squares in Go, built around the elastic net.
//
// The central estimator minimizes
//
//	(1/2)·Σᵢ wᵢ·(yᵢ - β₀ - xᵢ·β)² + λ·(α·‖β‖₁ + (1-α)/2·‖β‖₂²)
//
// with cyclic in-place coordinate updates, where α ∈ [0, 1] mixes the L1
// and L2 penalties (α = 1 is the lasso, α = 0 is ridge) and λ ≥ 0 sets
// the penalty strength. Sample weights, per-coefficient penalty scaling,
// warm starts, and pathwise fitting along a log-spaced λ grid are
// supported.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "github.com/mlondschien/glum/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    model := linear.NewElasticNet(1.0, 0.01,
//	        linear.WithNIters(200),
//	        linear.WithTol(1e-8),
//	    )
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("coefficients:", model.GetWeights())
//	    fmt.Println("intercept:", model.GetIntercept())
//	}
//
// # Packages
//
//   - linear: ElasticNet, WeightedLeastSquares, and pathwise fitting
//   - metrics: Evaluation metrics (MSE, MAE, R², weighted variants)
//   - preprocessing: Mean-square column scaling with coefficient undo
//   - core/model: Estimator interfaces, fit state, sklearn interchange
//   - core/parallel: Chunked parallel loops and reductions
//   - pkg/errors: Typed errors and the solver warning mechanism
//   - pkg/log: Structured slog setup with stacktrace extraction
//
// # Column Normalization
//
// The closed-form coordinate update assumes columns scaled to weighted
// mean square one. Standardization is on by default; fitted coefficients
// are always reported on the original scale of the input columns.
//
// # scikit-learn Interchange
//
// Fitted models can be exported to and loaded from scikit-learn's
// ElasticNet JSON parameterization, where the penalty strength is named
// alpha and the mixing ratio l1_ratio:
//
//	if err := model.ExportToSKLearn("model.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// # License
//
// glum is released under the MIT License.
package glum
