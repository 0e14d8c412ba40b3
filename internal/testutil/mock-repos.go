package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"carvalue-service/internal/core/domain"
)

// MockListingRepo is a mock of ListingRepository.
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) ReplaceAll(ctx context.Context, listings []*domain.Listing) error {
	args := m.Called(ctx, listings)
	return args.Error(0)
}

func (m *MockListingRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockListingRepo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListingRepo) AgeRange(ctx context.Context) (domain.ValueRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ValueRange), args.Error(1)
}

func (m *MockListingRepo) KmRange(ctx context.Context) (domain.ValueRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ValueRange), args.Error(1)
}

func (m *MockListingRepo) AvgPriceBy(ctx context.Context, field string) ([]domain.GroupStat, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupStat), args.Error(1)
}
