package dto

import "carvalue-service/internal/core/domain"

type ScheduleRequest struct {
	FuelType         string `json:"fuel_type" binding:"required"`
	Brand            string `json:"brand" binding:"required"`
	Segment          string `json:"segment" binding:"required"`
	BodyType         string `json:"body_type" binding:"required"`
	Age              int    `json:"age"`
	Km               int    `json:"km"`
	ExpectedAnnualKm *int   `json:"expected_annual_km,omitempty"`
	// WithComparison asks for the closest-brands table too; it is an order of
	// magnitude more predictions than the schedule itself.
	WithComparison bool `json:"with_comparison"`
}

func (r ScheduleRequest) ToSelection() domain.VehicleSelection {
	return domain.VehicleSelection{
		FuelType:         r.FuelType,
		Brand:            r.Brand,
		Segment:          r.Segment,
		BodyType:         r.BodyType,
		Age:              r.Age,
		Km:               r.Km,
		ExpectedAnnualKm: r.ExpectedAnnualKm,
	}
}

type ScheduleResponse struct {
	Schedule   *domain.ValuationSchedule `json:"schedule"`
	Comparison []domain.BrandComparison  `json:"comparison,omitempty"`
}
