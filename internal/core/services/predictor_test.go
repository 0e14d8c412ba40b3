package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carvalue-service/internal/core/domain"
	"carvalue-service/internal/testutil"
)

func newPredictor(t *testing.T, model *testutil.FakeModel) (*PredictionService, *testutil.StaticModelProvider) {
	t.Helper()
	provider := &testutil.StaticModelProvider{
		Model: model,
		Info:  domain.ModelInfo{Version: "2026-03-01"},
	}
	svc, err := NewPredictionService(provider, 16)
	require.NoError(t, err)
	return svc, provider
}

func TestPredictionService_Predict(t *testing.T) {
	// weight -0.1 per km, -500 per year of age
	weights := make([]float64, 13)
	weights[0] = -0.1
	weights[4] = -500
	model := testutil.LinearModel(30000, weights)
	svc, _ := newPredictor(t, model)

	price, err := svc.Predict(context.Background(), testutil.Payload(10000, 2))
	require.NoError(t, err)
	assert.InDelta(t, 28000, price, 1e-9)
}

func TestPredictionService_Predict_Memoizes(t *testing.T) {
	model := testutil.LinearModel(30000, nil)
	svc, _ := newPredictor(t, model)

	payload := testutil.Payload(10000, 2)
	first, err := svc.Predict(context.Background(), payload)
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, model.Calls)
}

func TestPredictionService_Predict_CacheKeyedByVersion(t *testing.T) {
	model := testutil.LinearModel(30000, nil)
	svc, provider := newPredictor(t, model)

	payload := testutil.Payload(10000, 2)
	_, err := svc.Predict(context.Background(), payload)
	require.NoError(t, err)

	// A reload under the same payload must not serve the old entry.
	provider.Info.Version = "2026-04-01"
	_, err = svc.Predict(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, 2, model.Calls)
}

func TestPredictionService_Predict_EmptyPayload(t *testing.T) {
	svc, _ := newPredictor(t, testutil.LinearModel(30000, nil))

	_, err := svc.Predict(context.Background(), domain.PricePayload{})
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)
}

func TestPredictionService_Predict_SchemaError(t *testing.T) {
	svc, _ := newPredictor(t, testutil.LinearModel(30000, nil))

	payload := domain.PricePayload{
		"km":        "a lot", // wrong type
		"fuel_type": "diesel",
		"brand":     "audi",
		"segment":   "c",
		"body_type": "berlina",
		"color":     "red", // not in the schema
	}
	_, err := svc.Predict(context.Background(), payload)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"age"}, schemaErr.Missing)
	assert.Equal(t, []string{"color"}, schemaErr.Extra)
	assert.Equal(t, []string{"km"}, schemaErr.Invalid)
}

func TestPredictionService_Predict_BlankCategorical(t *testing.T) {
	svc, _ := newPredictor(t, testutil.LinearModel(30000, nil))

	payload := testutil.Payload(10000, 2)
	payload["brand"] = "  "
	_, err := svc.Predict(context.Background(), payload)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"brand"}, schemaErr.Invalid)
}

func TestPredictionService_Predict_UnknownLevelEncodesToZeros(t *testing.T) {
	// 800 on every fuel slot so any known level shifts the price.
	weights := make([]float64, 13)
	weights[1], weights[2], weights[3] = 800, 800, 800
	svc, _ := newPredictor(t, testutil.LinearModel(30000, weights))

	known := testutil.Payload(0, 0)
	price, err := svc.Predict(context.Background(), known)
	require.NoError(t, err)
	assert.InDelta(t, 30800, price, 1e-9)

	unknown := testutil.Payload(0, 0)
	unknown["fuel_type"] = "hydrogen"
	price, err = svc.Predict(context.Background(), unknown)
	require.NoError(t, err)
	assert.InDelta(t, 30000, price, 1e-9)
}

func TestPredictionService_Predict_ProviderError(t *testing.T) {
	provider := &testutil.StaticModelProvider{Err: domain.ErrModelNotLoaded}
	svc, err := NewPredictionService(provider, 16)
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), testutil.Payload(10000, 2))
	assert.ErrorIs(t, err, domain.ErrModelNotLoaded)
}

func TestPredictionService_PredictBatch(t *testing.T) {
	weights := make([]float64, 13)
	weights[4] = -1000
	svc, _ := newPredictor(t, testutil.LinearModel(30000, weights))

	payloads := []domain.PricePayload{
		testutil.Payload(0, 0),
		testutil.Payload(0, 1),
		testutil.Payload(0, 2),
	}
	values, err := svc.PredictBatch(context.Background(), payloads)
	require.NoError(t, err)
	assert.Equal(t, []float64{30000, 29000, 28000}, values)
}

func TestPredictionService_PredictBatch_Empty(t *testing.T) {
	svc, _ := newPredictor(t, testutil.LinearModel(30000, nil))

	_, err := svc.PredictBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoPayloads)
}

func TestPredictionService_PredictBatch_ValidatesBeforeInference(t *testing.T) {
	model := testutil.LinearModel(30000, nil)
	svc, _ := newPredictor(t, model)

	payloads := []domain.PricePayload{
		testutil.Payload(0, 0),
		{"km": 1000}, // incomplete
	}
	_, err := svc.PredictBatch(context.Background(), payloads)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Zero(t, model.Calls)
}

func TestPredictionService_PredictBatch_CanceledContext(t *testing.T) {
	svc, _ := newPredictor(t, testutil.LinearModel(30000, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PredictBatch(ctx, []domain.PricePayload{testutil.Payload(0, 0)})
	assert.ErrorIs(t, err, context.Canceled)
}
