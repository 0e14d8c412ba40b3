// Package catalog loads the master vehicle catalog: the mapping from raw-data
// folders to brand, model, segment and body type used in the dataset merge.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"carvalue-service/internal/core/domain"
)

type file struct {
	Vehicles []domain.CatalogEntry `yaml:"vehicles"`
}

type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Entries(ctx context.Context) (map[string]domain.CatalogEntry, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, s.path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	var f file
	if err := yaml.Unmarshal(payload, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogInvalid, err)
	}

	entries := make(map[string]domain.CatalogEntry, len(f.Vehicles))
	for _, e := range f.Vehicles {
		if e.Folder == "" || e.Brand == "" {
			return nil, fmt.Errorf("%w: entry missing folder or brand", domain.ErrCatalogInvalid)
		}
		if _, dup := entries[e.Folder]; dup {
			return nil, fmt.Errorf("%w: duplicate folder %q", domain.ErrCatalogInvalid, e.Folder)
		}
		entries[e.Folder] = e
	}
	return entries, nil
}
