package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:      0.0,
			tolerance: 1e-10,
			wantErr:   false,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25, // ((0.5)^2 + (0.5)^2 + (-0.5)^2 + (-0.5)^2) / 4 = 0.25
			tolerance: 1e-10,
			wantErr:   false,
		},
		{
			name:      "dimension mismatch",
			yTrue:     mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:     mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr:   true,
			tolerance: 1e-10,
		},
		{
			name:      "empty vectors",
			yTrue:     &mat.VecDense{},
			yPred:     &mat.VecDense{},
			wantErr:   true,
			tolerance: 1e-10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightedMSE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
	yPred := mat.NewVecDense(3, []float64{2.0, 2.0, 3.0})

	// 重みを最初の観測に集中させると誤差も集中する
	got, err := WeightedMSE(yTrue, yPred, []float64{8, 1, 1})
	if err != nil {
		t.Fatalf("WeightedMSE() error = %v", err)
	}
	want := 8.0 / 10.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("WeightedMSE() = %v, want %v", got, want)
	}

	// nil重みはMSEと一致する
	uniform, err := WeightedMSE(yTrue, yPred, nil)
	if err != nil {
		t.Fatalf("WeightedMSE(nil) error = %v", err)
	}
	plain, _ := MSE(yTrue, yPred)
	if uniform != plain {
		t.Errorf("WeightedMSE(nil) = %v, MSE = %v", uniform, plain)
	}

	// 非正の重みはエラー
	if _, err := WeightedMSE(yTrue, yPred, []float64{1, 0, 1}); err == nil {
		t.Error("non-positive weight must fail")
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-0.5) > 1e-10 {
		t.Errorf("MAE() = %v, want 0.5", got)
	}
}

func TestR2(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			name:      "mean prediction gives zero",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "constant target",
			yTrue:     mat.NewVecDense(3, []float64{2.0, 2.0, 2.0}),
			yPred:     mat.NewVecDense(3, []float64{2.0, 2.0, 2.0}),
			wantErr:   true,
			tolerance: 1e-10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("R2() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightedR2MatchesUnweightedForUniformWeights(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{1.0, 3.0, 2.0, 5.0, 4.0})
	yPred := mat.NewVecDense(5, []float64{1.2, 2.7, 2.1, 4.6, 4.4})

	plain, err := R2(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2() error = %v", err)
	}
	weighted, err := WeightedR2(yTrue, yPred, []float64{0.2, 0.2, 0.2, 0.2, 0.2})
	if err != nil {
		t.Fatalf("WeightedR2() error = %v", err)
	}
	if math.Abs(plain-weighted) > 1e-12 {
		t.Errorf("uniform WeightedR2 = %v, R2 = %v", weighted, plain)
	}
}
