package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

// groupColumns whitelists the listing columns services may group by.
var groupColumns = map[string]string{
	ports.GroupByBrand:    "brand",
	ports.GroupByFuelType: "fuel_type",
	ports.GroupBySegment:  "segment",
	ports.GroupByBodyType: "body_type",
	ports.GroupByKmRange:  "km_range",
}

type listingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) ports.ListingRepository {
	return &listingRepo{pool: pool}
}

func (r *listingRepo) ReplaceAll(ctx context.Context, listings []*domain.Listing) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace dataset: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM car_listing`); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	rows := make([][]any, len(listings))
	for i, l := range listings {
		rows[i] = []any{
			l.ID, l.Title, l.Brand, l.Model, l.Segment, l.BodyType, l.FuelType,
			l.Year, l.Age, l.Km, l.KmRange, l.PowerCV, l.CVRange,
			l.Price, l.PriceCalc, l.Province, l.IsProfessional, l.WarrantyMonths,
			l.CreatedAt,
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"car_listing"},
		[]string{
			"id", "title", "brand", "model", "segment", "body_type", "fuel_type",
			"year", "age", "km", "km_range", "power_cv", "cv_range",
			"price", "price_calc", "province", "is_professional", "warranty_months",
			"created_at",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy dataset: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace dataset: %w", err)
	}
	return nil
}

func (r *listingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM car_listing`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func (r *listingRepo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col, ok := groupColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown listing field %q", field)
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM car_listing WHERE %s <> '' ORDER BY %s`, col, col, col)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", col, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *listingRepo) AgeRange(ctx context.Context) (domain.ValueRange, error) {
	return r.valueRange(ctx, "age")
}

func (r *listingRepo) KmRange(ctx context.Context) (domain.ValueRange, error) {
	return r.valueRange(ctx, "km")
}

func (r *listingRepo) valueRange(ctx context.Context, col string) (domain.ValueRange, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(MIN(%s), 0), COALESCE(MAX(%s), 0) FROM car_listing`, col, col)
	var vr domain.ValueRange
	if err := r.pool.QueryRow(ctx, query).Scan(&vr.Min, &vr.Max); err != nil {
		return domain.ValueRange{}, fmt.Errorf("%s range: %w", col, err)
	}
	return vr, nil
}

func (r *listingRepo) AvgPriceBy(ctx context.Context, field string) ([]domain.GroupStat, error) {
	col, ok := groupColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown listing field %q", field)
	}

	// price_calc is the tax-normalized price; raw asking prices are not
	// comparable across professional and private sellers.
	query := fmt.Sprintf(`
		SELECT %s, AVG(price_calc), COUNT(*)
		FROM car_listing
		WHERE %s <> ''
		GROUP BY %s
		ORDER BY AVG(price_calc) DESC`, col, col, col)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("avg price by %s: %w", col, err)
	}
	defer rows.Close()

	var stats []domain.GroupStat
	for rows.Next() {
		var s domain.GroupStat
		if err := rows.Scan(&s.Group, &s.AvgPrice, &s.Count); err != nil {
			return nil, fmt.Errorf("scan avg price by %s: %w", col, err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
