package domain

// PricePayload is one prediction input: feature key -> value. Numeric features
// must be numbers, categorical features strings. The predictor validates it
// against the loaded model's schema before encoding.
type PricePayload map[string]any

// Feature keys of the price model schema. The artifact is the source of truth;
// these constants exist so services building payloads do not scatter literals.
const (
	FeatureKm       = "km"
	FeatureFuelType = "fuel_type"
	FeatureAge      = "age"
	FeatureBrand    = "brand"
	FeatureSegment  = "segment"
	FeatureBodyType = "body_type"
)

// VehicleSelection is the dashboard's sidebar state: the vehicle being valued.
type VehicleSelection struct {
	FuelType string `json:"fuel_type"`
	Brand    string `json:"brand"`
	Segment  string `json:"segment"`
	BodyType string `json:"body_type"`
	Age      int    `json:"age"`
	Km       int    `json:"km"`
	// ExpectedAnnualKm, when set, drives the km projection for future years.
	ExpectedAnnualKm *int `json:"expected_annual_km,omitempty"`
}

func (s VehicleSelection) Payload(age, km int) PricePayload {
	return PricePayload{
		FeatureKm:       km,
		FeatureFuelType: s.FuelType,
		FeatureAge:      age,
		FeatureBrand:    s.Brand,
		FeatureSegment:  s.Segment,
		FeatureBodyType: s.BodyType,
	}
}

// ScheduleRow is one year of a valuation schedule.
type ScheduleRow struct {
	Year            int     `json:"year"`
	Km              int     `json:"km"`
	Value           float64 `json:"value"`
	Depreciation    float64 `json:"depreciation"`
	DepreciationPct float64 `json:"depreciation_pct"`
	AccumPct        float64 `json:"accum_depreciation_pct"`
}

// ValuationSchedule is the projected value of a vehicle over a year range,
// with the per-year depreciation metrics the dashboard charts.
type ValuationSchedule struct {
	Rows            []ScheduleRow `json:"rows"`
	AvgKmPerYear    int           `json:"avg_km_per_year"`
	InitialValue    float64       `json:"initial_value"`
	AvgDepreciation float64       `json:"avg_depreciation"`
	AvgDepPct       float64       `json:"avg_depreciation_pct"`
}

// BrandComparison is one row of the closest-brands table: how a brand with the
// same fuel type, segment and body type holds value over ten years.
type BrandComparison struct {
	Brand           string   `json:"brand"`
	InitialValue    float64  `json:"initial_value"`
	AvgDepreciation float64  `json:"avg_depreciation"`
	AvgDepPct       float64  `json:"avg_depreciation_pct"`
	ValueYear5      *float64 `json:"value_year_5,omitempty"`
	ValueYear10     *float64 `json:"value_year_10,omitempty"`
	Selected        bool     `json:"selected"`
}
