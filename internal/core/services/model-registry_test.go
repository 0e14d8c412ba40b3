package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carvalue-service/internal/adapters/secondary/artifact"
	"carvalue-service/internal/core/domain"
	"carvalue-service/internal/testutil"
)

const artifactName = "price_model.json"

func writeVersions(t *testing.T, dir string, versions ...string) {
	t.Helper()
	for _, v := range versions {
		_, err := testutil.WriteArtifact(dir, v, artifactName)
		require.NoError(t, err)
	}
}

func TestModelRegistryService_Load_Latest(t *testing.T) {
	dir := t.TempDir()
	writeVersions(t, dir, "2026-01-15", "2026-03-01")

	svc := NewModelRegistryService(artifact.NewStore(), dir, artifactName)
	info, err := svc.Load("")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", info.Version)
	assert.Equal(t, "2026-03-01", info.Metadata.Version)
	assert.False(t, info.LoadedAt.IsZero())

	model, current, err := svc.Current()
	require.NoError(t, err)
	assert.NotNil(t, model)
	assert.Equal(t, "2026-03-01", current.Version)
}

func TestModelRegistryService_Load_NamedVersion(t *testing.T) {
	dir := t.TempDir()
	writeVersions(t, dir, "2026-01-15", "2026-03-01")

	svc := NewModelRegistryService(artifact.NewStore(), dir, artifactName)
	info, err := svc.Load("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", info.Version)
}

func TestModelRegistryService_Load_VersionNotFound(t *testing.T) {
	dir := t.TempDir()
	writeVersions(t, dir, "2026-03-01")

	svc := NewModelRegistryService(artifact.NewStore(), dir, artifactName)
	_, err := svc.Load("2025-01-01")
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)

	// A failed load never clobbers the active model.
	_, err = svc.Load("")
	require.NoError(t, err)
	_, err = svc.Load("2025-01-01")
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
	_, info, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", info.Version)
}

func TestModelRegistryService_Load_EmptyDir(t *testing.T) {
	svc := NewModelRegistryService(artifact.NewStore(), t.TempDir(), artifactName)
	_, err := svc.Load("")
	assert.ErrorIs(t, err, domain.ErrNoModelVersions)
}

func TestModelRegistryService_Current_BeforeLoad(t *testing.T) {
	svc := NewModelRegistryService(artifact.NewStore(), t.TempDir(), artifactName)
	_, _, err := svc.Current()
	assert.ErrorIs(t, err, domain.ErrModelNotLoaded)

	_, err = svc.Info()
	assert.ErrorIs(t, err, domain.ErrModelNotLoaded)
}

func TestModelRegistryService_Reload_PicksUpNewVersion(t *testing.T) {
	dir := t.TempDir()
	writeVersions(t, dir, "2026-01-15")

	svc := NewModelRegistryService(artifact.NewStore(), dir, artifactName)
	info, err := svc.Reload()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", info.Version)

	writeVersions(t, dir, "2026-03-01")
	info, err = svc.Reload()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", info.Version)
}

func TestModelRegistryService_Versions(t *testing.T) {
	dir := t.TempDir()
	writeVersions(t, dir, "2026-01-15", "2026-03-01")

	svc := NewModelRegistryService(artifact.NewStore(), dir, artifactName)
	versions, err := svc.Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-01-15"}, versions)
}
