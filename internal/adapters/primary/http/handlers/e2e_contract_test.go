package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carvalue-service/internal/adapters/secondary/artifact"
	"carvalue-service/internal/adapters/secondary/catalog"
	"carvalue-service/internal/adapters/secondary/rawpages"
	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
	"carvalue-service/internal/core/services"
	"carvalue-service/internal/testutil"
)

const testArtifactName = "price_model.json"

type e2eEnv struct {
	router   *gin.Engine
	repo     *testutil.MockListingRepo
	registry *services.ModelRegistryService
	modelDir string
}

// setupE2ERouter wires the full HTTP surface over a real artifact in a temp
// dir and a mocked listings repository, the same shape main assembles.
func setupE2ERouter(t *testing.T) *e2eEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	modelDir := t.TempDir()
	_, err := testutil.WriteArtifact(modelDir, "2026-03-01", testArtifactName)
	require.NoError(t, err)

	registry := services.NewModelRegistryService(artifact.NewStore(), modelDir, testArtifactName)
	_, err = registry.Reload()
	require.NoError(t, err)

	predictor, err := services.NewPredictionService(registry, 64)
	require.NoError(t, err)

	repo := new(testutil.MockListingRepo)
	scheduleSvc := services.NewScheduleService(predictor, repo)
	insightSvc := services.NewInsightService(repo)
	datasetSvc := services.NewDatasetService(
		rawpages.NewSource(t.TempDir()),
		catalog.NewSource(filepath.Join(t.TempDir(), "catalog.yaml")),
		repo,
	)

	h := New(predictor, scheduleSvc, insightSvc, datasetSvc, registry)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1/carvalue"))

	return &e2eEnv{router: router, repo: repo, registry: registry, modelDir: modelDir}
}

func (e *e2eEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestE2E_Predict(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/predict", gin.H{
		"payload": testutil.Payload(10000, 2),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Price        float64 `json:"price"`
		ModelVersion string  `json:"model_version"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 23000, resp.Price, 1e-9)
	assert.Equal(t, "2026-03-01", resp.ModelVersion)
}

func TestE2E_Predict_SchemaError(t *testing.T) {
	env := setupE2ERouter(t)

	payload := testutil.Payload(10000, 2)
	delete(payload, "age")
	payload["color"] = "red"

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/predict", gin.H{"payload": payload})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
		Extra   []string `json:"extra"`
		Invalid []string `json:"invalid"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []string{"age"}, resp.Missing)
	assert.Equal(t, []string{"color"}, resp.Extra)
	assert.Empty(t, resp.Invalid)
	assert.NotEmpty(t, resp.Error)
}

func TestE2E_Predict_MissingBody(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/predict", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestE2E_PredictBatch(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/predict/batch", gin.H{
		"payloads": []domain.PricePayload{
			testutil.Payload(10000, 2),
			testutil.Payload(60000, 2),
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Prices       []float64 `json:"prices"`
		ModelVersion string    `json:"model_version"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Prices, 2)
	assert.InDelta(t, 23000, resp.Prices[0], 1e-9)
	assert.InDelta(t, 18000, resp.Prices[1], 1e-9)
}

func TestE2E_Schedule(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/schedule", gin.H{
		"fuel_type": "diesel",
		"brand":     "audi",
		"segment":   "c",
		"body_type": "berlina",
		"age":       2,
		"km":        20000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Schedule struct {
			Rows []struct {
				Year  int     `json:"year"`
				Km    int     `json:"km"`
				Value float64 `json:"value"`
			} `json:"rows"`
			InitialValue float64 `json:"initial_value"`
			AvgKmPerYear int     `json:"avg_km_per_year"`
		} `json:"schedule"`
		Comparison []json.RawMessage `json:"comparison"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Schedule.Rows, 11)
	assert.Equal(t, 23000.0, resp.Schedule.InitialValue)
	assert.Equal(t, 10000, resp.Schedule.AvgKmPerYear)
	assert.Empty(t, resp.Comparison)
}

func TestE2E_Schedule_WithComparison(t *testing.T) {
	env := setupE2ERouter(t)
	env.repo.On("DistinctValues", mock.Anything, ports.GroupByBrand).Return([]string{"audi", "bmw", "seat"}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/schedule", gin.H{
		"fuel_type":       "diesel",
		"brand":           "audi",
		"segment":         "c",
		"body_type":       "berlina",
		"age":             2,
		"km":              20000,
		"with_comparison": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Comparison []struct {
			Brand    string `json:"brand"`
			Selected bool   `json:"selected"`
		} `json:"comparison"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Comparison, 3)
	assert.Equal(t, "audi", resp.Comparison[0].Brand)
	assert.True(t, resp.Comparison[0].Selected)
}

func TestE2E_Schedule_MissingFields(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/schedule", gin.H{
		"fuel_type": "diesel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestE2E_GetFilters(t *testing.T) {
	env := setupE2ERouter(t)
	env.repo.On("DistinctValues", mock.Anything, ports.GroupByFuelType).Return([]string{"diesel"}, nil)
	env.repo.On("DistinctValues", mock.Anything, ports.GroupByBrand).Return([]string{"audi"}, nil)
	env.repo.On("DistinctValues", mock.Anything, ports.GroupBySegment).Return([]string{"c"}, nil)
	env.repo.On("DistinctValues", mock.Anything, ports.GroupByBodyType).Return([]string{"berlina"}, nil)
	env.repo.On("AgeRange", mock.Anything).Return(domain.ValueRange{Min: 0, Max: 15}, nil)
	env.repo.On("KmRange", mock.Anything).Return(domain.ValueRange{Min: 1000, Max: 240000}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/carvalue/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		FuelTypes []string `json:"fuel_types"`
		Brands    []string `json:"brands"`
		AgeRange  struct {
			Min int `json:"min"`
			Max int `json:"max"`
		} `json:"age_range"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []string{"diesel"}, resp.FuelTypes)
	assert.Equal(t, []string{"audi"}, resp.Brands)
	assert.Equal(t, 15, resp.AgeRange.Max)
}

func TestE2E_PriceByBrand(t *testing.T) {
	env := setupE2ERouter(t)
	env.repo.On("AvgPriceBy", mock.Anything, ports.GroupByBrand).Return([]domain.GroupStat{
		{Group: "audi", AvgPrice: 24500, Count: 120},
	}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/carvalue/insights/price-by-brand", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []domain.GroupStat `json:"items"`
		Total int                `json:"total"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "audi", resp.Items[0].Group)
}

func TestE2E_GetModel(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodGet, "/api/v1/carvalue/model", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Version  string   `json:"version"`
		Target   string   `json:"target"`
		Features []string `json:"features"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "2026-03-01", resp.Version)
	assert.Equal(t, "price_eur", resp.Target)
	assert.Equal(t, []string{"km", "fuel_type", "age", "brand", "segment", "body_type"}, resp.Features)
}

func TestE2E_ModelVersionsAndReload(t *testing.T) {
	env := setupE2ERouter(t)
	_, err := testutil.WriteArtifact(env.modelDir, "2026-01-15", testArtifactName)
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/v1/carvalue/model/versions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var versions struct {
		Versions []string `json:"versions"`
		Active   string   `json:"active"`
	}
	decode(t, w, &versions)
	assert.Equal(t, []string{"2026-03-01", "2026-01-15"}, versions.Versions)
	assert.Equal(t, "2026-03-01", versions.Active)

	// Pin the older version.
	w = env.do(t, http.MethodPost, "/api/v1/carvalue/model/reload", gin.H{"version": "2026-01-15"})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded struct {
		Version string `json:"version"`
	}
	decode(t, w, &reloaded)
	assert.Equal(t, "2026-01-15", reloaded.Version)

	// Unknown version is a 404 and keeps the active model.
	w = env.do(t, http.MethodPost, "/api/v1/carvalue/model/reload", gin.H{"version": "2024-01-01"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	info, err := env.registry.Info()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", info.Version)
}

func TestE2E_RebuildDataset_NoCatalog(t *testing.T) {
	env := setupE2ERouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/carvalue/dataset/rebuild", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
