package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carvalue-service/internal/core/domain"
)

func TestScheduleRequest_ToSelection(t *testing.T) {
	expected := 15000
	req := ScheduleRequest{
		FuelType:         "diesel",
		Brand:            "audi",
		Segment:          "c",
		BodyType:         "berlina",
		Age:              3,
		Km:               45000,
		ExpectedAnnualKm: &expected,
	}

	sel := req.ToSelection()
	assert.Equal(t, "diesel", sel.FuelType)
	assert.Equal(t, "audi", sel.Brand)
	assert.Equal(t, 3, sel.Age)
	assert.Equal(t, 45000, sel.Km)
	assert.Same(t, &expected, sel.ExpectedAnnualKm)
}

func TestToPayloads(t *testing.T) {
	payloads := ToPayloads([]map[string]any{
		{"km": 1000},
		{"km": 2000},
	})
	assert.Len(t, payloads, 2)
	assert.Equal(t, 2000, payloads[1]["km"])
}

func TestToFilterOptionsResponse_NilSlices(t *testing.T) {
	resp := ToFilterOptionsResponse(&domain.FilterOptions{})
	assert.NotNil(t, resp.FuelTypes)
	assert.NotNil(t, resp.Brands)
	assert.NotNil(t, resp.Segments)
	assert.NotNil(t, resp.BodyTypes)
}

func TestToGroupStatsResponse(t *testing.T) {
	resp := ToGroupStatsResponse(nil)
	assert.NotNil(t, resp.Items)
	assert.Zero(t, resp.Total)

	resp = ToGroupStatsResponse([]domain.GroupStat{{Group: "audi"}})
	assert.Equal(t, 1, resp.Total)
}

func TestToModelInfoResponse(t *testing.T) {
	trained := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	info := domain.ModelInfo{
		Version: "2026-03-01",
		Metadata: domain.ModelMetadata{
			Version:   "2026-03-01",
			Target:    "price_eur",
			Samples:   15000,
			TrainedAt: trained,
		},
		Schema: domain.FeatureSchema{Fields: []domain.FeatureField{
			{Name: "km", Kind: domain.FeatureNumeric},
			{Name: "brand", Kind: domain.FeatureCategorical, Levels: []string{"audi"}},
		}},
	}

	resp := ToModelInfoResponse(info)
	assert.Equal(t, "2026-03-01", resp.Version)
	assert.Equal(t, "price_eur", resp.Target)
	assert.Equal(t, 15000, resp.Samples)
	assert.Equal(t, trained, resp.TrainedAt)
	assert.Equal(t, []string{"km", "brand"}, resp.Features)
}
