package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambdaPathShapeAndOrder(t *testing.T) {
	X, y := testData()

	lambdas, err := LambdaPath(X, y, 1.0, 20, 1e-3, nil)
	require.NoError(t, err)
	require.Len(t, lambdas, 20)

	for k := 1; k < len(lambdas); k++ {
		assert.Less(t, lambdas[k], lambdas[k-1], "grid must descend")
	}
	assert.InDelta(t, lambdas[0]*1e-3, lambdas[len(lambdas)-1], lambdas[0]*1e-6)
}

func TestLambdaPathTopZeroesAllCoefficients(t *testing.T) {
	X, y := testData()

	lambdas, err := LambdaPath(X, y, 1.0, 5, 1e-2, nil)
	require.NoError(t, err)

	// 丸め誤差で閾値ちょうどの列が動かないよう、わずかに上から当てる
	en := NewElasticNet(1.0, lambdas[0]*(1+1e-10), WithNIters(100))
	require.NoError(t, en.Fit(X, y))

	for j, b := range en.GetWeights() {
		assert.Zero(t, b, "coefficient %d must be zero at lambda_max", j)
	}
}

func TestLambdaPathValidation(t *testing.T) {
	X, y := testData()

	_, err := LambdaPath(X, y, 2.0, 10, 1e-3, nil)
	require.Error(t, err, "alpha out of range")

	_, err = LambdaPath(X, y, 1.0, 0, 1e-3, nil)
	require.Error(t, err, "non-positive grid size")

	_, err = LambdaPath(X, y, 1.0, 10, 1.5, nil)
	require.Error(t, err, "eps outside (0, 1)")

	_, err = LambdaPath(X, y, 1.0, 10, 1e-3, []float64{1})
	require.Error(t, err, "weight length mismatch")
}

// パス終端（ごく小さい lambda）ではペナルティなしの解に近づく。
func TestFitPathwiseApproachesUnpenalized(t *testing.T) {
	X, y := testData()

	oracle := NewWeightedLeastSquares(true)
	require.NoError(t, oracle.Fit(X, y))

	path, err := FitPathwise(X, y, 1.0, 30, 1e-7,
		WithNIters(5000),
		WithTol(1e-12),
	)
	require.NoError(t, err)
	require.Len(t, path.Coefs, 30)

	last := path.Coefs[len(path.Coefs)-1]
	for j := range oracle.GetWeights() {
		assert.InDelta(t, oracle.GetWeights()[j], last[j], 1e-3, "coefficient %d", j)
	}
	assert.InDelta(t, oracle.GetIntercept(), path.Intercepts[len(path.Intercepts)-1], 1e-3)
}

// ウォームスタート付きのパスは、各 lambda を個別にゼロから解いた場合と
// 同じ解に到達する。
func TestFitPathwiseMatchesColdStarts(t *testing.T) {
	X, y := testData()

	path, err := FitPathwise(X, y, 0.9, 8, 1e-2,
		WithNIters(3000),
		WithTol(1e-12),
	)
	require.NoError(t, err)

	for k, lambda := range path.Lambdas {
		cold := NewElasticNet(0.9, lambda, WithNIters(3000), WithTol(1e-12))
		require.NoError(t, cold.Fit(X, y))

		for j := range cold.GetWeights() {
			assert.InDelta(t, cold.GetWeights()[j], path.Coefs[k][j], 1e-6,
				"lambda %g coefficient %d", lambda, j)
		}
	}
}
