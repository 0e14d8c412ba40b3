package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

// PriceSchema is the feature schema the test artifacts are built with:
// km, fuel_type, age, brand, segment, body_type, matching training order.
func PriceSchema() domain.FeatureSchema {
	return domain.FeatureSchema{Fields: []domain.FeatureField{
		{Name: "km", Kind: domain.FeatureNumeric},
		{Name: "fuel_type", Kind: domain.FeatureCategorical, Levels: []string{"gasolina", "diesel", "electrico"}},
		{Name: "age", Kind: domain.FeatureNumeric},
		{Name: "brand", Kind: domain.FeatureCategorical, Levels: []string{"audi", "bmw", "seat"}},
		{Name: "segment", Kind: domain.FeatureCategorical, Levels: []string{"b", "c", "d"}},
		{Name: "body_type", Kind: domain.FeatureCategorical, Levels: []string{"berlina", "suv"}},
	}}
}

// Payload builds a valid payload for PriceSchema.
func Payload(km, age int) domain.PricePayload {
	return domain.PricePayload{
		"km":        km,
		"fuel_type": "diesel",
		"age":       age,
		"brand":     "audi",
		"segment":   "c",
		"body_type": "berlina",
	}
}

// ArtifactJSON is a small valid artifact document for PriceSchema: base score
// 20000, one split on km at 50000 (+2000 / -3000) and one on age at 5
// (+1000 / -1000). Vector layout: km=0, fuel=1..3, age=4, brand=5..7,
// segment=8..10, body=11..12.
func ArtifactJSON(version string) []byte {
	return []byte(fmt.Sprintf(`{
  "metadata": {
    "version": %q,
    "target": "price_eur",
    "samples": 15000,
    "trained_at": "2026-01-01T00:00:00Z"
  },
  "schema": {
    "fields": [
      {"name": "km", "kind": "numeric"},
      {"name": "fuel_type", "kind": "categorical", "levels": ["gasolina", "diesel", "electrico"]},
      {"name": "age", "kind": "numeric"},
      {"name": "brand", "kind": "categorical", "levels": ["audi", "bmw", "seat"]},
      {"name": "segment", "kind": "categorical", "levels": ["b", "c", "d"]},
      {"name": "body_type", "kind": "categorical", "levels": ["berlina", "suv"]}
    ]
  },
  "ensemble": {
    "base_score": 20000,
    "trees": [
      {"nodes": [
        {"feature_idx": 0, "threshold": 50000, "left_child": 1, "right_child": 2, "is_leaf": false},
        {"value": 2000, "is_leaf": true},
        {"value": -3000, "is_leaf": true}
      ]},
      {"nodes": [
        {"feature_idx": 4, "threshold": 5, "left_child": 1, "right_child": 2, "is_leaf": false},
        {"value": 1000, "is_leaf": true},
        {"value": -1000, "is_leaf": true}
      ]}
    ]
  }
}`, version))
}

// WriteArtifact writes an ArtifactJSON under dir/version/name and returns the
// artifact path.
func WriteArtifact(dir, version, name string) (string, error) {
	versionDir := filepath.Join(dir, version)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(versionDir, name)
	if err := os.WriteFile(path, ArtifactJSON(version), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// FakeModel is a hand-wired model handle for service tests.
type FakeModel struct {
	SchemaV   domain.FeatureSchema
	MetadataV domain.ModelMetadata
	PredictFn func(vector []float64) float64
	Calls     int
}

func (m *FakeModel) Predict(vector []float64) float64 {
	m.Calls++
	return m.PredictFn(vector)
}

func (m *FakeModel) Schema() domain.FeatureSchema   { return m.SchemaV }
func (m *FakeModel) Metadata() domain.ModelMetadata { return m.MetadataV }

// StaticModelProvider satisfies services.ModelProvider with a fixed handle.
type StaticModelProvider struct {
	Model ports.Model
	Info  domain.ModelInfo
	Err   error
}

func (p *StaticModelProvider) Current() (ports.Model, domain.ModelInfo, error) {
	if p.Err != nil {
		return nil, domain.ModelInfo{}, p.Err
	}
	return p.Model, p.Info, nil
}

// LinearModel builds a FakeModel that computes base + weights · vector, a
// convenient deterministic stand-in for the real ensemble.
func LinearModel(base float64, weights []float64) *FakeModel {
	return &FakeModel{
		SchemaV:   PriceSchema(),
		MetadataV: domain.ModelMetadata{Version: "test", Target: "price_eur", TrainedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		PredictFn: func(vector []float64) float64 {
			sum := base
			for i, w := range weights {
				if i < len(vector) {
					sum += w * vector[i]
				}
			}
			return sum
		},
	}
}
