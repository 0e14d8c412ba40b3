package ports

import (
	"carvalue-service/internal/core/domain"
)

// Model is an immutable handle over a loaded regression artifact. Predict
// takes an already-encoded feature vector; encoding is the predictor's job
// because it owns schema validation.
type Model interface {
	Predict(vector []float64) float64
	Schema() domain.FeatureSchema
	Metadata() domain.ModelMetadata
}

// ModelStore loads artifacts from a versioned model directory
// (<dir>/<date>/<name>).
type ModelStore interface {
	Load(path string) (Model, error)
	// LatestVersion returns the newest date-named version directory under dir.
	LatestVersion(dir string) (string, error)
	ListVersions(dir string) ([]string, error)
}
