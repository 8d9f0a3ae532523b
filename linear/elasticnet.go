package linear

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/mlondschien/glum/core/model"
	"github.com/mlondschien/glum/core/parallel"
	"github.com/mlondschien/glum/metrics"
	"github.com/mlondschien/glum/pkg/errors"
	mllog "github.com/mlondschien/glum/pkg/log"
	"github.com/mlondschien/glum/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// 並列処理の閾値（この値以下の観測数では逐次処理を使用）
const defaultParallelThreshold = 1000

// ElasticNet は弾性ネットペナルティ付き重み付き最小二乗の座標降下法ソルバー。
//
// 目的関数は
//
//	(1/2)·Σᵢ wᵢ·(yᵢ - β₀ - xᵢ·β)² + λ·(α·‖β‖₁ + (1-α)/2·‖β‖₂²)
//
// で、α ∈ [0, 1] はL1/L2の混合比（1で純粋なlasso、0で純粋なridge）、
// λ ≥ 0 はペナルティの強さ。各係数は固定された順序で閉形式の
// ソフト閾値更新により逐次更新される。
//
// 閉形式更新が条件付き最適と一致するのは各列の重み付き二乗和が1のとき
// （Σᵢ wᵢ·xᵢⱼ² = 1）。Standardize（デフォルトで有効）の場合はFitの内部で
// 列をこの形に正規化し、得られた係数を元のスケールに戻してから格納する。
// Standardizeを無効にする場合、この正規化は呼び出し側の責任となる。
// 正規化されていない列でも各更新は実際の重み付き二乗和で割るため
// 座標ごとの最適化としては正しいが、ペナルティは列のスケールに
// 依存して効くことに注意。
//
// サンプル重みは内部で合計1に正規化される。省略時は一様重み 1/N。
type ElasticNet struct {
	model.BaseEstimator

	alpha  float64 // L1/L2混合比
	lambda float64 // ペナルティの強さ

	nIters            int     // 掃引回数の上限
	tol               float64 // 0より大きい場合、係数の最大変化量がこの値を下回ったら停止
	fitIntercept      bool
	standardize       bool
	sampleWeights     []float64
	penaltyScaling    []float64
	startCoef         []float64
	parallelThreshold int

	Coef      *mat.VecDense // 係数（元のスケール）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
	NSweeps   int           // 実際に実行された掃引回数
}

// NewElasticNet は新しいElasticNetソルバーを作成する。
// alpha と lambda の検証はFitの冒頭で行われ、不正な値は計算が始まる前に
// ValidationErrorとして返される。
func NewElasticNet(alpha, lambda float64, opts ...Option) *ElasticNet {
	en := &ElasticNet{
		alpha:             alpha,
		lambda:            lambda,
		nIters:            100,
		tol:               0,
		fitIntercept:      true,
		standardize:       true,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

// Fit はモデルを訓練データで学習させる。
//
// 不正な入力（形状の不一致、範囲外のハイパーパラメータ、非正の重み、
// 非有限の値）は反復が始まる前にエラーとして返され、掃引の途中で
// 失敗することはない。
func (en *ElasticNet) Fit(X, y mat.Matrix) error {
	start := time.Now()

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("ElasticNet.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("ElasticNet.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("ElasticNet.Fit", "y must be a column vector")
	}

	if en.alpha < 0 || en.alpha > 1 || math.IsNaN(en.alpha) {
		return errors.NewValidationError("alpha", "must be in [0, 1]", en.alpha)
	}
	if en.lambda < 0 || math.IsNaN(en.lambda) || math.IsInf(en.lambda, 0) {
		return errors.NewValidationError("lambda", "must be non-negative and finite", en.lambda)
	}
	if en.nIters < 1 {
		return errors.NewValidationError("n_iters", "must be a positive integer", en.nIters)
	}
	if en.tol < 0 || math.IsNaN(en.tol) {
		return errors.NewValidationError("tol", "must be non-negative", en.tol)
	}

	if en.sampleWeights != nil && len(en.sampleWeights) != r {
		return errors.NewDimensionError("ElasticNet.Fit", r, len(en.sampleWeights), 0)
	}
	if en.penaltyScaling != nil && len(en.penaltyScaling) != c {
		return errors.NewDimensionError("ElasticNet.Fit", c, len(en.penaltyScaling), 1)
	}
	if en.startCoef != nil && len(en.startCoef) != c {
		return errors.NewDimensionError("ElasticNet.Fit", c, len(en.startCoef), 1)
	}
	if en.penaltyScaling != nil {
		for _, s := range en.penaltyScaling {
			if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
				return errors.NewValueError("ElasticNet.Fit", "penalty scaling must be non-negative and finite")
			}
		}
	}

	if err := errors.CheckMatrix("ElasticNet.Fit", X, r, c, 0); err != nil {
		return err
	}
	if err := errors.CheckMatrix("ElasticNet.Fit", y, r, 1, 0); err != nil {
		return err
	}

	// サンプル重みを合計1に正規化する
	weights := make([]float64, r)
	if en.sampleWeights == nil {
		for i := range weights {
			weights[i] = 1.0 / float64(r)
		}
	} else {
		var wSum float64
		for _, w := range en.sampleWeights {
			if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return errors.NewValueError("ElasticNet.Fit", "sample weights must be positive and finite")
			}
			wSum += w
		}
		for i, w := range en.sampleWeights {
			weights[i] = w / wSum
		}
	}

	// 必要なら列を重み付き二乗平均1に正規化する
	design := X
	var scaler *preprocessing.MeanSquareScaler
	if en.standardize {
		scaler = preprocessing.NewMeanSquareScaler(en.fitIntercept)
		scaled, err := scaler.FitTransformWeighted(X, weights)
		if err != nil {
			return err
		}
		design = scaled
	}

	// 列優先コピー（座標更新は列単位でアクセスする）
	cols := make([][]float64, c)
	parallel.ParallelizeWithThreshold(c, 4, func(startCol, endCol int) {
		for j := startCol; j < endCol; j++ {
			col := make([]float64, r)
			for i := 0; i < r; i++ {
				col[i] = design.At(i, j)
			}
			cols[j] = col
		}
	})

	yVec := make([]float64, r)
	for i := 0; i < r; i++ {
		yVec[i] = y.At(i, 0)
	}

	// ウォームスタートの係数をスケール後の座標系に写す
	var startBeta []float64
	if en.startCoef != nil {
		startBeta = make([]float64, c)
		copy(startBeta, en.startCoef)
		if scaler != nil {
			for j := range startBeta {
				startBeta[j] *= scaler.Scale[j]
			}
		}
	}

	cd := newCDProblem(cols, yVec, weights, en.alpha, en.lambda,
		en.penaltyScaling, en.fitIntercept, en.parallelThreshold, startBeta)

	logger := slog.Default().With(
		slog.String(mllog.ModelNameKey, "ElasticNet"),
		slog.String(mllog.ComponentKey, "linear"),
		slog.Float64(mllog.AlphaKey, en.alpha),
		slog.Float64(mllog.LambdaKey, en.lambda),
	)

	converged := false
	sweeps := 0
	for s := 0; s < en.nIters; s++ {
		maxDelta := cd.sweep()
		sweeps = s + 1

		logger.Debug("sweep completed",
			slog.String(mllog.OperationKey, mllog.OperationFit),
			slog.Int(mllog.SweepKey, sweeps),
			slog.Float64(mllog.MaxDeltaKey, maxDelta),
			slog.Int(mllog.ActiveKey, cd.activeCount()),
		)

		if en.tol > 0 && maxDelta < en.tol {
			converged = true
			break
		}
	}

	if en.tol > 0 && !converged {
		errors.Warn(errors.NewConvergenceWarning("ElasticNet", sweeps,
			fmt.Sprintf("maximum coefficient change still above tolerance %g", en.tol)))
	}

	// 係数を元のスケールに戻す
	coef := make([]float64, c)
	copy(coef, cd.beta)
	intercept := cd.intercept
	if scaler != nil {
		var err error
		coef, intercept, err = scaler.InverseCoefficients(coef, intercept)
		if err != nil {
			return err
		}
	}

	en.Coef = mat.NewVecDense(c, coef)
	en.Intercept = intercept
	en.NFeatures = c
	en.NSweeps = sweeps
	en.SetFitted()

	logger.Info("fit completed",
		slog.String(mllog.OperationKey, mllog.OperationFit),
		slog.Int(mllog.SamplesKey, r),
		slog.Int(mllog.FeaturesKey, c),
		slog.Bool(mllog.WeightedKey, en.sampleWeights != nil),
		slog.Int(mllog.SweepKey, sweeps),
		slog.Bool(mllog.ConvergedKey, converged),
		slog.Int64(mllog.DurationMsKey, time.Since(start).Milliseconds()),
	)

	return nil
}

// Predict は入力データに対する予測 y = X·β + β₀ を計算する
func (en *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !en.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNet", "Predict")
	}

	r, c := X.Dims()
	if c != en.NFeatures {
		return nil, errors.NewDimensionError("ElasticNet.Predict", en.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, en.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := en.Intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * en.Coef.AtVec(j)
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions, nil
}

// GetWeights は学習された係数（元のスケール）を返す
func (en *ElasticNet) GetWeights() []float64 {
	if en.Coef == nil {
		return nil
	}

	weights := make([]float64, en.Coef.Len())
	for i := 0; i < en.Coef.Len(); i++ {
		weights[i] = en.Coef.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (en *ElasticNet) GetIntercept() float64 {
	if !en.IsFitted() {
		return 0
	}
	return en.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (en *ElasticNet) Score(X, y mat.Matrix) (float64, error) {
	if !en.IsFitted() {
		return 0, errors.NewNotFittedError("ElasticNet", "Score")
	}

	yPred, err := en.Predict(X)
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

// ExportToSKLearn はモデルをscikit-learn互換のJSON形式でファイルにエクスポートする
func (en *ElasticNet) ExportToSKLearn(filename string) error {
	if !en.IsFitted() {
		return errors.NewNotFittedError("ElasticNet", "ExportToSKLearn")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return en.ExportToSKLearnWriter(file)
}

// ExportToSKLearnWriter はモデルをWriterにscikit-learn互換形式でエクスポートする。
// scikit-learnの流儀に合わせ、JSONでは正則化の強さを alpha、
// L1/L2混合比を l1_ratio と呼ぶ。
func (en *ElasticNet) ExportToSKLearnWriter(w io.Writer) error {
	if !en.IsFitted() {
		return errors.NewNotFittedError("ElasticNet", "ExportToSKLearnWriter")
	}

	params := model.SKLearnElasticNetParams{
		Coefficients: en.GetWeights(),
		Intercept:    en.Intercept,
		Penalty:      en.lambda,
		L1Ratio:      en.alpha,
		NFeatures:    en.NFeatures,
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	skModel := model.SKLearnModel{
		ModelSpec: model.SKLearnModelSpec{
			Name:          "ElasticNet",
			FormatVersion: "1.0",
		},
		Params: paramsJSON,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&skModel); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	return nil
}

// LoadFromSKLearn はscikit-learnからエクスポートされたJSONファイルからモデルを読み込む
func (en *ElasticNet) LoadFromSKLearn(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return en.LoadFromSKLearnReader(file)
}

// LoadFromSKLearnReader はReaderからscikit-learnモデルを読み込む
func (en *ElasticNet) LoadFromSKLearnReader(r io.Reader) error {
	skModel, err := model.LoadSKLearnModelFromReader(r)
	if err != nil {
		return fmt.Errorf("failed to load sklearn model: %w", err)
	}

	params, err := model.LoadElasticNetParams(skModel)
	if err != nil {
		return fmt.Errorf("failed to load elastic net params: %w", err)
	}

	en.lambda = params.Penalty
	en.alpha = params.L1Ratio
	en.NFeatures = params.NFeatures
	en.Intercept = params.Intercept
	en.Coef = mat.NewVecDense(len(params.Coefficients), params.Coefficients)
	en.SetFitted()

	return nil
}
