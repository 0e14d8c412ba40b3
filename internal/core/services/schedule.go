package services

import (
	"context"
	"math"
	"sort"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

const comparisonBrands = 6

// ScheduleService projects a vehicle's value over a year range and derives the
// depreciation metrics and brand comparison the dashboard shows.
type ScheduleService struct {
	predictor *PredictionService
	repo      ports.ListingRepository
}

func NewScheduleService(predictor *PredictionService, repo ports.ListingRepository) *ScheduleService {
	return &ScheduleService{predictor: predictor, repo: repo}
}

// Schedule builds the valuation schedule for the selected vehicle.
func (s *ScheduleService) Schedule(ctx context.Context, sel domain.VehicleSelection) (*domain.ValuationSchedule, error) {
	if err := validateSelection(sel); err != nil {
		return nil, err
	}

	years, kms, avgPerYear := projectYears(sel.Age, sel.Km, sel.ExpectedAnnualKm)

	payloads := make([]domain.PricePayload, len(years))
	for i, y := range years {
		payloads[i] = sel.Payload(y, kms[i])
	}

	values, err := s.predictor.PredictBatch(ctx, payloads)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ScheduleRow, len(years))
	for i := range years {
		rows[i] = domain.ScheduleRow{Year: years[i], Km: kms[i], Value: round2(values[i])}
	}
	applyDepreciation(rows)

	sched := &domain.ValuationSchedule{
		Rows:         rows,
		AvgKmPerYear: avgPerYear,
	}
	if len(rows) > 0 {
		sched.InitialValue = rows[0].Value
	}
	sched.AvgDepreciation, sched.AvgDepPct = averageDepreciation(rows)
	return sched, nil
}

// CompareBrands values every brand at year zero with the same fuel type,
// segment and body type, keeps the six closest to the selected brand and
// returns their ten-year profiles. The selected brand comes first, the rest
// sorted by initial value descending.
func (s *ScheduleService) CompareBrands(ctx context.Context, sel domain.VehicleSelection) ([]domain.BrandComparison, error) {
	if err := validateSelection(sel); err != nil {
		return nil, err
	}

	brands, err := s.repo.DistinctValues(ctx, ports.GroupByBrand)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, domain.ErrNoBrandOptions
	}
	if !contains(brands, sel.Brand) {
		return nil, domain.ErrUnknownBrand
	}

	_, _, avgPerYear := projectYears(sel.Age, sel.Km, sel.ExpectedAnnualKm)

	// Year-zero value per brand, used to pick the closest competitors.
	initial := make(map[string]float64, len(brands))
	for _, brand := range brands {
		bsel := sel
		bsel.Brand = brand
		v, err := s.predictor.Predict(ctx, bsel.Payload(0, 0))
		if err != nil {
			return nil, err
		}
		initial[brand] = v
	}

	type diff struct {
		brand string
		delta float64
	}
	diffs := make([]diff, 0, len(brands)-1)
	for brand, v := range initial {
		if brand == sel.Brand {
			continue
		}
		diffs = append(diffs, diff{brand: brand, delta: math.Abs(v - initial[sel.Brand])})
	}
	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].delta != diffs[j].delta {
			return diffs[i].delta < diffs[j].delta
		}
		return diffs[i].brand < diffs[j].brand
	})
	if len(diffs) > comparisonBrands {
		diffs = diffs[:comparisonBrands]
	}

	compare := []string{sel.Brand}
	for _, d := range diffs {
		compare = append(compare, d.brand)
	}

	result := make([]domain.BrandComparison, 0, len(compare))
	for _, brand := range compare {
		row, err := s.brandProfile(ctx, sel, brand, avgPerYear)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	// Selected first, the rest by initial value descending.
	rest := result[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].InitialValue > rest[j].InitialValue })
	return result, nil
}

func (s *ScheduleService) brandProfile(ctx context.Context, sel domain.VehicleSelection, brand string, avgPerYear int) (domain.BrandComparison, error) {
	bsel := sel
	bsel.Brand = brand

	payloads := make([]domain.PricePayload, 0, 11)
	years := make([]int, 0, 11)
	for y := 0; y <= 10; y++ {
		years = append(years, y)
		payloads = append(payloads, bsel.Payload(y, int(math.Round(float64(y)*float64(avgPerYear)))))
	}

	values, err := s.predictor.PredictBatch(ctx, payloads)
	if err != nil {
		return domain.BrandComparison{}, err
	}

	rows := make([]domain.ScheduleRow, len(years))
	for i := range years {
		rows[i] = domain.ScheduleRow{Year: years[i], Value: round2(values[i])}
	}
	applyDepreciation(rows)
	avgDep, avgDepPct := averageDepreciation(rows)

	row := domain.BrandComparison{
		Brand:           brand,
		InitialValue:    rows[0].Value,
		AvgDepreciation: avgDep,
		AvgDepPct:       avgDepPct,
		Selected:        brand == sel.Brand,
	}
	for i := range rows {
		switch rows[i].Year {
		case 5:
			v := rows[i].Value
			row.ValueYear5 = &v
		case 10:
			v := rows[i].Value
			row.ValueYear10 = &v
		}
	}
	return row, nil
}

func validateSelection(sel domain.VehicleSelection) error {
	missing := make([]string, 0, 4)
	if sel.FuelType == "" {
		missing = append(missing, domain.FeatureFuelType)
	}
	if sel.Brand == "" {
		missing = append(missing, domain.FeatureBrand)
	}
	if sel.Segment == "" {
		missing = append(missing, domain.FeatureSegment)
	}
	if sel.BodyType == "" {
		missing = append(missing, domain.FeatureBodyType)
	}
	if len(missing) > 0 {
		return &domain.SchemaError{Missing: missing}
	}
	if sel.Age < 0 {
		return domain.ErrInvalidAge
	}
	if sel.Km < 0 {
		return domain.ErrInvalidKm
	}
	return nil
}

// projectYears returns the year range to value, the projected km at each year
// and the historical km-per-year average. Vehicles younger than ten years get
// the full 0..10 curve; older ones get their current age plus three years.
func projectYears(age, km int, expectedAnnualKm *int) ([]int, []int, int) {
	avgPerYear := km
	if age > 0 {
		avgPerYear = km / age
	}

	var years []int
	if age < 10 {
		for y := 0; y <= 10; y++ {
			years = append(years, y)
		}
	} else {
		for y := age; y <= age+3; y++ {
			years = append(years, y)
		}
	}

	kms := make([]int, len(years))
	for i, y := range years {
		switch {
		case y <= age && age > 0:
			kms[i] = int(math.Round(float64(y) * float64(km) / float64(age)))
		case y <= age:
			kms[i] = int(math.Round(float64(y) * float64(avgPerYear)))
		case expectedAnnualKm != nil:
			kms[i] = km + (y-age)*(*expectedAnnualKm)
		default:
			kms[i] = int(math.Round(float64(y) * float64(avgPerYear)))
		}
	}
	return years, kms, avgPerYear
}

// applyDepreciation fills the depreciation columns in place. The first row is
// the baseline: zero depreciation, accumulated percentages relative to it.
func applyDepreciation(rows []domain.ScheduleRow) {
	if len(rows) == 0 {
		return
	}
	base := rows[0].Value
	for i := range rows {
		if i == 0 {
			continue
		}
		prev := rows[i-1].Value
		dep := prev - rows[i].Value
		rows[i].Depreciation = round2(dep)
		if prev != 0 {
			rows[i].DepreciationPct = round2(dep / prev * 100)
		}
		if base != 0 {
			rows[i].AccumPct = round2((base - rows[i].Value) / base * 100)
		}
	}
}

// averageDepreciation averages the yearly metrics, skipping the year-zero row
// when present because it carries no depreciation by construction.
func averageDepreciation(rows []domain.ScheduleRow) (float64, float64) {
	var sumDep, sumPct float64
	n := 0
	for _, r := range rows {
		if r.Year == 0 {
			continue
		}
		sumDep += r.Depreciation
		sumPct += r.DepreciationPct
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return round2(sumDep / float64(n)), round2(sumPct / float64(n))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
