package metrics

import (
	"math"

	"github.com/mlondschien/glum/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// WeightedMSE はサンプル重み付きの平均二乗誤差を計算する。
// weights が nil の場合は一様重みとして扱う。
func WeightedMSE(yTrue, yPred *mat.VecDense, weights []float64) (float64, error) {
	if weights == nil {
		return MSE(yTrue, yPred)
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("WeightedMSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("WeightedMSE", n, yPred.Len(), 0)
	}
	if len(weights) != n {
		return 0, errors.NewDimensionError("WeightedMSE", n, len(weights), 0)
	}

	var sum, wSum float64
	for i := 0; i < n; i++ {
		w := weights[i]
		if w <= 0 {
			return 0, errors.NewValueError("WeightedMSE", "weights must be positive")
		}
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += w * diff * diff
		wSum += w
	}

	return sum / wSum, nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2 は決定係数（R²）を計算する
//
// R² = 1 - RSS/TSS。yTrue の分散が0の場合はエラーを返す。
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	return WeightedR2(yTrue, yPred, nil)
}

// WeightedR2 はサンプル重み付きの決定係数を計算する。
// weights が nil の場合は一様重みとして扱う。
func WeightedR2(yTrue, yPred *mat.VecDense, weights []float64) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("WeightedR2", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("WeightedR2", n, yPred.Len(), 0)
	}
	if weights != nil && len(weights) != n {
		return 0, errors.NewDimensionError("WeightedR2", n, len(weights), 0)
	}

	weightAt := func(i int) float64 {
		if weights == nil {
			return 1
		}
		return weights[i]
	}

	// 重み付き平均
	var yMean, wSum float64
	for i := 0; i < n; i++ {
		w := weightAt(i)
		if w <= 0 {
			return 0, errors.NewValueError("WeightedR2", "weights must be positive")
		}
		yMean += w * yTrue.AtVec(i)
		wSum += w
	}
	yMean /= wSum

	// 全変動 (TSS) と残差変動 (RSS)
	var tss, rss float64
	for i := 0; i < n; i++ {
		w := weightAt(i)
		d := yTrue.AtVec(i) - yMean
		r := yTrue.AtVec(i) - yPred.AtVec(i)
		tss += w * d * d
		rss += w * r * r
	}

	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}

	return 1 - rss/tss, nil
}
