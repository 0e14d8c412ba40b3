package domain

import "time"

type FeatureKind string

const (
	FeatureNumeric     FeatureKind = "numeric"
	FeatureCategorical FeatureKind = "categorical"
)

// FeatureField is one input the model was trained on. Categorical fields carry
// the encoder levels frozen at training time; their one-hot block occupies
// len(Levels) positions of the encoded vector, numeric fields occupy one.
type FeatureField struct {
	Name   string      `json:"name"`
	Kind   FeatureKind `json:"kind"`
	Levels []string    `json:"levels,omitempty"`
}

// FeatureSchema is the ordered set of fields the model expects. Order matters:
// encoded vectors are laid out field by field in schema order.
type FeatureSchema struct {
	Fields []FeatureField `json:"fields"`
}

// Width returns the length of an encoded feature vector.
func (s FeatureSchema) Width() int {
	w := 0
	for _, f := range s.Fields {
		if f.Kind == FeatureCategorical {
			w += len(f.Levels)
		} else {
			w++
		}
	}
	return w
}

func (s FeatureSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (s FeatureSchema) Field(name string) (FeatureField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FeatureField{}, false
}

// ModelMetadata is the training-side information stored inside an artifact.
type ModelMetadata struct {
	Version   string    `json:"version"`
	Target    string    `json:"target"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}

// ModelInfo describes the currently loaded model to API consumers.
type ModelInfo struct {
	Version  string        `json:"version"`
	Path     string        `json:"path"`
	Metadata ModelMetadata `json:"metadata"`
	Schema   FeatureSchema `json:"schema"`
	LoadedAt time.Time     `json:"loaded_at"`
}
