package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// SKLearnModelSpec はscikit-learn互換JSONのモデル識別情報
type SKLearnModelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

// SKLearnModel はscikit-learnとの相互運用に使うJSONエンベロープ。
// Params の中身はモデルごとに異なるため遅延デコードする。
type SKLearnModel struct {
	ModelSpec SKLearnModelSpec `json:"model_spec"`
	Params    json.RawMessage  `json:"params"`
}

// LoadSKLearnModelFromReader はReaderからscikit-learn互換JSONを読み込む
func LoadSKLearnModelFromReader(r io.Reader) (*SKLearnModel, error) {
	var m SKLearnModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode sklearn model: %w", err)
	}
	if m.ModelSpec.Name == "" {
		return nil, fmt.Errorf("sklearn model is missing model_spec.name")
	}
	return &m, nil
}

// SKLearnElasticNetParams はElasticNetのパラメータ表現。
// フィールド名はscikit-learnの流儀に合わせる: scikit-learnでは
// alpha が正則化の強さ、l1_ratio がL1/L2の混合比を意味する。
type SKLearnElasticNetParams struct {
	Coefficients []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	Penalty      float64   `json:"alpha"`
	L1Ratio      float64   `json:"l1_ratio"`
	NFeatures    int       `json:"n_features"`
}

// LoadElasticNetParams はエンベロープからElasticNetのパラメータを取り出す
func LoadElasticNetParams(m *SKLearnModel) (*SKLearnElasticNetParams, error) {
	if m.ModelSpec.Name != "ElasticNet" {
		return nil, fmt.Errorf("expected model ElasticNet, got %q", m.ModelSpec.Name)
	}
	var params SKLearnElasticNetParams
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ElasticNet params: %w", err)
	}
	if params.NFeatures == 0 {
		params.NFeatures = len(params.Coefficients)
	}
	if len(params.Coefficients) != params.NFeatures {
		return nil, fmt.Errorf("coef length %d does not match n_features %d",
			len(params.Coefficients), params.NFeatures)
	}
	return &params, nil
}
