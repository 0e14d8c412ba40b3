package services

import (
	"context"
	"fmt"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

// InsightService serves the dataset-derived values the dashboard needs:
// sidebar filter options and the aggregates behind the market charts.
type InsightService struct {
	repo ports.ListingRepository
}

func NewInsightService(repo ports.ListingRepository) *InsightService {
	return &InsightService{repo: repo}
}

func (s *InsightService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts := &domain.FilterOptions{}

	var err error
	if opts.FuelTypes, err = s.repo.DistinctValues(ctx, ports.GroupByFuelType); err != nil {
		return nil, fmt.Errorf("fuel types: %w", err)
	}
	if opts.Brands, err = s.repo.DistinctValues(ctx, ports.GroupByBrand); err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	if opts.Segments, err = s.repo.DistinctValues(ctx, ports.GroupBySegment); err != nil {
		return nil, fmt.Errorf("segments: %w", err)
	}
	if opts.BodyTypes, err = s.repo.DistinctValues(ctx, ports.GroupByBodyType); err != nil {
		return nil, fmt.Errorf("body types: %w", err)
	}
	if opts.AgeRange, err = s.repo.AgeRange(ctx); err != nil {
		return nil, fmt.Errorf("age range: %w", err)
	}
	if opts.KmRange, err = s.repo.KmRange(ctx); err != nil {
		return nil, fmt.Errorf("km range: %w", err)
	}
	return opts, nil
}

func (s *InsightService) PriceByBrand(ctx context.Context) ([]domain.GroupStat, error) {
	return s.repo.AvgPriceBy(ctx, ports.GroupByBrand)
}

func (s *InsightService) PriceByFuelType(ctx context.Context) ([]domain.GroupStat, error) {
	return s.repo.AvgPriceBy(ctx, ports.GroupByFuelType)
}

func (s *InsightService) PriceByKmRange(ctx context.Context) ([]domain.GroupStat, error) {
	return s.repo.AvgPriceBy(ctx, ports.GroupByKmRange)
}

func (s *InsightService) ListingCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
