package ports

import (
	"context"

	"carvalue-service/internal/core/domain"
)

// PageSource yields the offer records embedded in saved listing pages, one
// folder per scraped vehicle.
type PageSource interface {
	Folders(ctx context.Context) ([]string, error)
	Offers(ctx context.Context, folder string) ([]domain.RawOffer, error)
}

// CatalogSource resolves raw-data folders to vehicle identities.
type CatalogSource interface {
	Entries(ctx context.Context) (map[string]domain.CatalogEntry, error)
}
