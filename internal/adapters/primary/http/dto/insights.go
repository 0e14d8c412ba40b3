package dto

import "carvalue-service/internal/core/domain"

type FilterOptionsResponse struct {
	FuelTypes []string          `json:"fuel_types"`
	Brands    []string          `json:"brands"`
	Segments  []string          `json:"segments"`
	BodyTypes []string          `json:"body_types"`
	AgeRange  domain.ValueRange `json:"age_range"`
	KmRange   domain.ValueRange `json:"km_range"`
}

func ToFilterOptionsResponse(opts *domain.FilterOptions) FilterOptionsResponse {
	return FilterOptionsResponse{
		FuelTypes: emptyAsSlice(opts.FuelTypes),
		Brands:    emptyAsSlice(opts.Brands),
		Segments:  emptyAsSlice(opts.Segments),
		BodyTypes: emptyAsSlice(opts.BodyTypes),
		AgeRange:  opts.AgeRange,
		KmRange:   opts.KmRange,
	}
}

type GroupStatsResponse struct {
	Items []domain.GroupStat `json:"items"`
	Total int                `json:"total"`
}

func ToGroupStatsResponse(stats []domain.GroupStat) GroupStatsResponse {
	if stats == nil {
		stats = []domain.GroupStat{}
	}
	return GroupStatsResponse{Items: stats, Total: len(stats)}
}

func emptyAsSlice(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
