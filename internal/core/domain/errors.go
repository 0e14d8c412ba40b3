package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Model Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrArtifactCorrupt  = errors.New("model artifact is corrupt")
	ErrNoModelVersions  = errors.New("no model versions available")
	ErrVersionNotFound  = errors.New("model version not found")
	ErrModelNotLoaded   = errors.New("no model loaded")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrEmptyPayload   = errors.New("prediction payload is empty")
	ErrNoPayloads     = errors.New("no prediction payloads given")
	ErrInvalidAge     = errors.New("age must be >= 0")
	ErrInvalidKm      = errors.New("km must be >= 0")
	ErrUnknownBrand   = errors.New("brand not present in the dataset")
	ErrNoBrandOptions = errors.New("no brands available for comparison")
)

// ============================================================================
// Dataset Errors
// ============================================================================

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrEmptyDataset    = errors.New("dataset build produced no listings")
	ErrRebuildRunning  = errors.New("dataset rebuild already in progress")
	ErrCatalogNotFound = errors.New("vehicle catalog not found")
	ErrCatalogInvalid  = errors.New("vehicle catalog is invalid")
)

// SchemaError reports a payload that does not match the feature schema the
// model was trained on. Missing holds required feature keys absent from the
// payload, Extra holds payload keys the schema does not know, Invalid holds
// keys whose values have the wrong kind.
type SchemaError struct {
	Missing []string
	Extra   []string
	Invalid []string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected fields: %s", strings.Join(e.Extra, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid values for: %s", strings.Join(e.Invalid, ", ")))
	}
	if len(parts) == 0 {
		return "payload does not match the feature schema"
	}
	return "payload does not match the feature schema: " + strings.Join(parts, "; ")
}
