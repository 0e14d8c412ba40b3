package services

import (
	"path/filepath"
	"sync/atomic"
	"time"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

// ModelProvider hands out the active model handle. Implemented by
// ModelRegistryService; stubbed in tests.
type ModelProvider interface {
	Current() (ports.Model, domain.ModelInfo, error)
}

type loadedModel struct {
	model ports.Model
	info  domain.ModelInfo
}

// ModelRegistryService owns the process-wide model handle. The handle is
// immutable; swaps happen only through Load/Reload behind an atomic pointer,
// so readers never lock.
type ModelRegistryService struct {
	store ports.ModelStore
	dir   string
	name  string

	current atomic.Pointer[loadedModel]
}

func NewModelRegistryService(store ports.ModelStore, dir, name string) *ModelRegistryService {
	return &ModelRegistryService{store: store, dir: dir, name: name}
}

// Load loads the named version, or the newest one when version is empty, and
// makes it the active model.
func (s *ModelRegistryService) Load(version string) (domain.ModelInfo, error) {
	if version == "" {
		latest, err := s.store.LatestVersion(s.dir)
		if err != nil {
			return domain.ModelInfo{}, err
		}
		version = latest
	} else {
		versions, err := s.store.ListVersions(s.dir)
		if err != nil {
			return domain.ModelInfo{}, err
		}
		if !contains(versions, version) {
			return domain.ModelInfo{}, domain.ErrVersionNotFound
		}
	}

	path := artifactPath(s.dir, version, s.name)
	model, err := s.store.Load(path)
	if err != nil {
		return domain.ModelInfo{}, err
	}

	info := domain.ModelInfo{
		Version:  version,
		Path:     path,
		Metadata: model.Metadata(),
		Schema:   model.Schema(),
		LoadedAt: time.Now(),
	}
	s.current.Store(&loadedModel{model: model, info: info})
	return info, nil
}

// Reload re-resolves the newest version and loads it.
func (s *ModelRegistryService) Reload() (domain.ModelInfo, error) {
	return s.Load("")
}

func (s *ModelRegistryService) Current() (ports.Model, domain.ModelInfo, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, domain.ModelInfo{}, domain.ErrModelNotLoaded
	}
	return cur.model, cur.info, nil
}

func (s *ModelRegistryService) Info() (domain.ModelInfo, error) {
	_, info, err := s.Current()
	return info, err
}

func (s *ModelRegistryService) Versions() ([]string, error) {
	return s.store.ListVersions(s.dir)
}

func artifactPath(dir, version, name string) string {
	return filepath.Join(dir, version, name)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
