package linear

import (
	"math"

	"github.com/mlondschien/glum/core/model"
	"github.com/mlondschien/glum/core/parallel"
	"github.com/mlondschien/glum/metrics"
	"github.com/mlondschien/glum/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// WeightedLeastSquares は重み付き最小二乗の閉形式ソルバー。
// 正規方程式 (Xᵀ·W·X)·β = Xᵀ·W·y を解く。ペナルティなしの
// 参照解として、また座標降下法の λ=0 の極限の検証に使える。
type WeightedLeastSquares struct {
	model.BaseEstimator

	fitIntercept bool

	Coef      *mat.VecDense // 係数
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

// NewWeightedLeastSquares は新しいWeightedLeastSquaresソルバーを作成する
func NewWeightedLeastSquares(fitIntercept bool) *WeightedLeastSquares {
	return &WeightedLeastSquares{fitIntercept: fitIntercept}
}

// Fit は一様重みでモデルを学習させる
func (lr *WeightedLeastSquares) Fit(X, y mat.Matrix) error {
	return lr.FitWeighted(X, y, nil)
}

// FitWeighted はサンプル重み付きでモデルを学習させる。
// weights が nil の場合は一様重みとして扱う。
func (lr *WeightedLeastSquares) FitWeighted(X, y mat.Matrix, weights []float64) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("WeightedLeastSquares.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("WeightedLeastSquares.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("WeightedLeastSquares.Fit", "y must be a column vector")
	}
	if weights != nil && len(weights) != r {
		return errors.NewDimensionError("WeightedLeastSquares.Fit", r, len(weights), 0)
	}
	if weights != nil {
		for _, w := range weights {
			if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return errors.NewValueError("WeightedLeastSquares.Fit", "sample weights must be positive and finite")
			}
		}
	}

	lr.NFeatures = c

	// 切片項のために X に 1 の列を追加する
	nCols := c
	if lr.fitIntercept {
		nCols = c + 1
	}
	design := mat.NewDense(r, nCols, nil)

	parallel.ParallelizeWithThreshold(r, defaultParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			offset := 0
			if lr.fitIntercept {
				design.Set(i, 0, 1.0)
				offset = 1
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	// W·X と W·y を構築する
	weighted := mat.NewDense(r, nCols, nil)
	wy := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		for j := 0; j < nCols; j++ {
			weighted.Set(i, j, w*design.At(i, j))
		}
		wy.SetVec(i, w*y.At(i, 0))
	}

	// 正規方程式を解く: (Xᵀ·W·X)⁻¹·Xᵀ·W·y
	var xt mat.Dense
	xt.CloneFrom(design.T())

	var xtwx mat.Dense
	xtwx.Mul(&xt, weighted)

	var inv mat.Dense
	if err := inv.Inverse(&xtwx); err != nil {
		return errors.NewModelError("WeightedLeastSquares.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var xtwy mat.VecDense
	xtwy.MulVec(&xt, wy)

	solution := mat.NewVecDense(nCols, nil)
	solution.MulVec(&inv, &xtwy)

	// 切片と係数を分離する
	if lr.fitIntercept {
		lr.Intercept = solution.AtVec(0)
		lr.Coef = mat.NewVecDense(c, nil)
		for j := 0; j < c; j++ {
			lr.Coef.SetVec(j, solution.AtVec(j+1))
		}
	} else {
		lr.Intercept = 0
		lr.Coef = mat.VecDenseCopyOf(solution)
	}

	lr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *WeightedLeastSquares) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("WeightedLeastSquares", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("WeightedLeastSquares.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Coef.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// GetWeights は学習された係数を返す
func (lr *WeightedLeastSquares) GetWeights() []float64 {
	if lr.Coef == nil {
		return nil
	}

	weights := make([]float64, lr.Coef.Len())
	for i := 0; i < lr.Coef.Len(); i++ {
		weights[i] = lr.Coef.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *WeightedLeastSquares) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *WeightedLeastSquares) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("WeightedLeastSquares", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrueVec := mat.NewVecDense(r, nil)
	yPredVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrueVec.SetVec(i, y.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return metrics.R2(yTrueVec, yPredVec)
}
