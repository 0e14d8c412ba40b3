// Package artifact implements the filesystem model store. Artifacts are JSON
// documents exported by the training pipeline: the frozen feature schema, the
// categorical encoder levels and a gradient-boosted ensemble of regression
// trees stored as flat node arrays.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

type treeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

type ensemble struct {
	BaseScore float64 `json:"base_score"`
	Trees     []tree  `json:"trees"`
}

type document struct {
	Metadata domain.ModelMetadata `json:"metadata"`
	Schema   domain.FeatureSchema `json:"schema"`
	Ensemble ensemble             `json:"ensemble"`
}

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load(path string) (ports.Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrArtifactCorrupt, path, err)
	}

	if err := validate(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrArtifactCorrupt, path, err)
	}

	return &gbtModel{doc: doc}, nil
}

// LatestVersion returns the newest date-named subdirectory of dir.
func (s *Store) LatestVersion(dir string) (string, error) {
	versions, err := s.ListVersions(dir)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", domain.ErrNoModelVersions
	}
	return versions[0], nil
}

// ListVersions returns the date-named subdirectories of dir, newest first.
// Entries that do not parse as dates are ignored.
func (s *Store) ListVersions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, dir)
		}
		return nil, fmt.Errorf("read model dir %s: %w", dir, err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse("2006-01-02", e.Name()); err != nil {
			continue
		}
		versions = append(versions, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))
	return versions, nil
}

func validate(doc *document) error {
	if len(doc.Schema.Fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	seen := make(map[string]bool, len(doc.Schema.Fields))
	for _, f := range doc.Schema.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema field with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate schema field %q", f.Name)
		}
		seen[f.Name] = true
		switch f.Kind {
		case domain.FeatureNumeric:
			if len(f.Levels) > 0 {
				return fmt.Errorf("numeric field %q carries levels", f.Name)
			}
		case domain.FeatureCategorical:
			if len(f.Levels) == 0 {
				return fmt.Errorf("categorical field %q has no levels", f.Name)
			}
		default:
			return fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
		}
	}

	width := doc.Schema.Width()
	for ti, t := range doc.Ensemble.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.IsLeaf {
				continue
			}
			if n.FeatureIdx < 0 || n.FeatureIdx >= width {
				return fmt.Errorf("tree %d node %d: feature index %d out of range [0,%d)", ti, ni, n.FeatureIdx, width)
			}
			if n.LeftChild < 0 || n.LeftChild >= len(t.Nodes) ||
				n.RightChild < 0 || n.RightChild >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: dangling child index", ti, ni)
			}
			// Children must point forward in the flat array, which rules
			// out cycles and bounds every Predict walk.
			if n.LeftChild <= ni || n.RightChild <= ni {
				return fmt.Errorf("tree %d node %d: children do not advance", ti, ni)
			}
		}
	}
	return nil
}

// gbtModel is the loaded handle. It is never mutated after Load, so concurrent
// Predict calls need no locking.
type gbtModel struct {
	doc document
}

func (m *gbtModel) Predict(vector []float64) float64 {
	sum := m.doc.Ensemble.BaseScore
	for _, t := range m.doc.Ensemble.Trees {
		sum += evalTree(t, vector)
	}
	return sum
}

func evalTree(t tree, vector []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value
		}
		if vector[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func (m *gbtModel) Schema() domain.FeatureSchema {
	return m.doc.Schema
}

func (m *gbtModel) Metadata() domain.ModelMetadata {
	return m.doc.Metadata
}
