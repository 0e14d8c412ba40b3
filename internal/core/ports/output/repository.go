package ports

import (
	"context"

	"carvalue-service/internal/core/domain"
)

// Listing fields the repository can group or select distinct values by.
// Whitelisted here so handlers can never smuggle arbitrary column names
// into SQL.
const (
	GroupByBrand    = "brand"
	GroupByFuelType = "fuel_type"
	GroupBySegment  = "segment"
	GroupByBodyType = "body_type"
	GroupByKmRange  = "km_range"
)

type ListingRepository interface {
	// ReplaceAll swaps the stored dataset for the given listings atomically.
	ReplaceAll(ctx context.Context, listings []*domain.Listing) error
	Count(ctx context.Context) (int, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
	AgeRange(ctx context.Context) (domain.ValueRange, error)
	KmRange(ctx context.Context) (domain.ValueRange, error)
	AvgPriceBy(ctx context.Context, field string) ([]domain.GroupStat, error)
}
