package preprocessing

import (
	"math"

	"github.com/mlondschien/glum/core/model"
	"github.com/mlondschien/glum/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MeanSquareScaler は各特徴量列を重み付き二乗平均が1になるようにスケールする。
// 座標降下法の閉形式更新は Σᵢ wᵢ·xᵢⱼ² = 1 という正規化を前提とするため、
// このスケーラーで変換した行列上で学習し、得られた係数を
// InverseCoefficients で元のスケールに戻すのが標準的な使い方。
//
// glmnetと同様に、Center が true の場合は重み付き平均を引いてから
// スケールする（切片をモデルに含める場合に使う）。
type MeanSquareScaler struct {
	model.BaseEstimator

	// Center は列の重み付き平均を引くかどうか
	Center bool

	// Mean は各特徴量の重み付き平均（Center が false の場合は0）
	Mean []float64

	// Scale は各特徴量の重み付き二乗平均の平方根。
	// ゼロ列（分散なし）の場合は1に固定され、変換は恒等になる。
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewMeanSquareScaler は新しいMeanSquareScalerを作成する
func NewMeanSquareScaler(center bool) *MeanSquareScaler {
	return &MeanSquareScaler{Center: center}
}

// Fit は一様重みでスケールパラメータを学習する
func (s *MeanSquareScaler) Fit(X mat.Matrix) error {
	return s.FitWeighted(X, nil)
}

// FitWeighted はサンプル重み付きでスケールパラメータを学習する。
// weights が nil の場合は一様重みとして扱い、与えられた場合は
// 内部で合計1に正規化して使う。
func (s *MeanSquareScaler) FitWeighted(X mat.Matrix, weights []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MeanSquareScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if weights != nil && len(weights) != r {
		return errors.NewDimensionError("MeanSquareScaler.Fit", r, len(weights), 0)
	}
	if err := errors.CheckMatrix("MeanSquareScaler.Fit", X, r, c, 0); err != nil {
		return err
	}

	// 重みを合計1に正規化する
	w := make([]float64, r)
	if weights == nil {
		for i := range w {
			w[i] = 1.0 / float64(r)
		}
	} else {
		var wSum float64
		for _, wi := range weights {
			if wi <= 0 || math.IsNaN(wi) || math.IsInf(wi, 0) {
				return errors.NewValueError("MeanSquareScaler.Fit", "weights must be positive and finite")
			}
			wSum += wi
		}
		for i, wi := range weights {
			w[i] = wi / wSum
		}
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		if s.Center {
			var mean float64
			for i := 0; i < r; i++ {
				mean += w[i] * X.At(i, j)
			}
			s.Mean[j] = mean
		}

		var msq float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - s.Mean[j]
			msq += w[i] * d * d
		}
		scale := math.Sqrt(msq)
		if scale < 1e-12 {
			// ゼロ列は恒等変換とする
			scale = 1.0
		}
		s.Scale[j] = scale
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みのパラメータでデータを変換する
func (s *MeanSquareScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MeanSquareScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("MeanSquareScaler.Transform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransformWeighted は学習と変換を同時に行う
func (s *MeanSquareScaler) FitTransformWeighted(X mat.Matrix, weights []float64) (mat.Matrix, error) {
	if err := s.FitWeighted(X, weights); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は変換を逆方向に適用する
func (s *MeanSquareScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MeanSquareScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("MeanSquareScaler.InverseTransform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return out, nil
}

// InverseCoefficients は変換後の行列上で学習した線形モデルの係数と切片を
// 元のスケールに写像する。変換後の予測 Σ βⱼ·(xⱼ-μⱼ)/σⱼ + b が
// 元のスケールの予測と一致するように βⱼ/σⱼ と b - Σ (βⱼ/σⱼ)·μⱼ を返す。
func (s *MeanSquareScaler) InverseCoefficients(coef []float64, intercept float64) ([]float64, float64, error) {
	if !s.IsFitted() {
		return nil, 0, errors.NewNotFittedError("MeanSquareScaler", "InverseCoefficients")
	}
	if len(coef) != s.NFeatures {
		return nil, 0, errors.NewDimensionError("MeanSquareScaler.InverseCoefficients", s.NFeatures, len(coef), 1)
	}

	orig := make([]float64, len(coef))
	shift := intercept
	for j, b := range coef {
		orig[j] = b / s.Scale[j]
		shift -= orig[j] * s.Mean[j]
	}
	return orig, shift, nil
}
