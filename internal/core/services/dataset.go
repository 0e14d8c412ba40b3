package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"carvalue-service/internal/core/domain"
	ports "carvalue-service/internal/core/ports/output"
)

var (
	kwRegexp = regexp.MustCompile(`(?i)(\d+)KW`)
	cvRegexp = regexp.MustCompile(`(?i)(\d+)CV`)
)

// fuelNames maps the listing site's fuel type ids to names.
var fuelNames = map[string]string{
	"1": "gasolina",
	"2": "diesel",
	"3": "electrico",
	"4": "hibrido",
	"5": "hibrido ench.",
	"6": "glp",
	"7": "cng",
}

// DatasetService rebuilds the cleaned listings dataset: extract offers from
// the saved raw pages, clean and deduplicate them, merge the vehicle catalog
// and replace the stored dataset.
type DatasetService struct {
	pages   ports.PageSource
	catalog ports.CatalogSource
	repo    ports.ListingRepository
	now     func() time.Time

	mu sync.Mutex
}

func NewDatasetService(pages ports.PageSource, catalog ports.CatalogSource, repo ports.ListingRepository) *DatasetService {
	return &DatasetService{pages: pages, catalog: catalog, repo: repo, now: time.Now}
}

// Rebuild runs the full pipeline. Only one rebuild may run at a time.
func (s *DatasetService) Rebuild(ctx context.Context) (*domain.DatasetReport, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrRebuildRunning
	}
	defer s.mu.Unlock()

	entries, err := s.catalog.Entries(ctx)
	if err != nil {
		return nil, err
	}

	folders, err := s.pages.Folders(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.DatasetReport{BuiltAt: s.now()}
	seen := make(map[string]struct{})
	listings := make([]*domain.Listing, 0, 1024)

	for _, folder := range folders {
		entry, ok := entries[folder]
		if !ok {
			log.WithField("folder", folder).Warn("no catalog entry, skipping folder")
			continue
		}
		report.Folders++

		offers, err := s.pages.Offers(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("extract offers from %s: %w", folder, err)
		}
		report.Extracted += len(offers)

		for i := range offers {
			listing, ok := s.clean(&offers[i], entry)
			if !ok {
				continue
			}
			// Dedupe by title and km: relisted cars keep their first record.
			key := listing.Title + "|" + strconv.Itoa(listing.Km)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			listings = append(listings, listing)
		}
	}

	report.Cleaned = len(listings)
	report.Dropped = report.Extracted - report.Cleaned

	if len(listings) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	if err := s.repo.ReplaceAll(ctx, listings); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}
	report.Stored = len(listings)

	log.WithFields(log.Fields{
		"folders":   report.Folders,
		"extracted": report.Extracted,
		"stored":    report.Stored,
		"dropped":   report.Dropped,
	}).Info("dataset rebuilt")
	return report, nil
}

// clean turns one raw offer into a listing, or reports false when the record
// fails a drop rule.
func (s *DatasetService) clean(offer *domain.RawOffer, entry domain.CatalogEntry) (*domain.Listing, bool) {
	title := strings.TrimSpace(offer.Title)
	if title == "" {
		return nil, false
	}

	year, okYear := parseIntField(offer.Year)
	km, okKm := parseIntField(offer.Km)
	price, okPrice := parseFloatField(offer.Price)
	if !okYear || !okKm || !okPrice {
		return nil, false
	}

	age := s.now().Year() - year
	if age < 0 {
		return nil, false
	}
	// A nearly-new odometer on an old car is a relisting artifact.
	if km < 1000 && age > 3 {
		return nil, false
	}
	if price <= 2000 {
		return nil, false
	}

	cv := powerFromTitle(title)

	listing := &domain.Listing{
		ID:             uuid.New(),
		Title:          title,
		Brand:          entry.Brand,
		Model:          entry.Model,
		Segment:        entry.Segment,
		BodyType:       entry.BodyType,
		FuelType:       fuelNames[strings.TrimSpace(offer.FuelTypeID)],
		Year:           year,
		Age:            age,
		Km:             km,
		KmRange:        kmRange(km),
		PowerCV:        cv,
		CVRange:        cvRange(cv),
		Price:          price,
		PriceCalc:      taxAdjustedPrice(price, offer.IncludesTaxes, offer.IsProfessional),
		Province:       strings.TrimSpace(offer.MainProvince),
		IsProfessional: parseBoolField(offer.IsProfessional),
		CreatedAt:      s.now(),
	}
	if months, ok := parseIntField(offer.WarrantyMonths); ok {
		listing.WarrantyMonths = months
	}
	return listing, true
}

// taxAdjustedPrice grosses up tax-exclusive prices: professional sellers quote
// net of 21% VAT, private sellers net of the 5% transfer tax.
func taxAdjustedPrice(price float64, includesTaxes, isProfessional string) float64 {
	includes, okIncludes := parseBoolStrict(includesTaxes)
	professional, okProfessional := parseBoolStrict(isProfessional)
	if !okIncludes || includes || !okProfessional {
		return price
	}
	if professional {
		return round2(price * 1.21)
	}
	return round2(price * 1.05)
}

// powerFromTitle pulls engine power out of the listing title. CV wins when
// both appear; a KW figure converts at 1.36 CV/KW.
func powerFromTitle(title string) float64 {
	if m := cvRegexp.FindStringSubmatch(title); len(m) == 2 {
		if cv, err := strconv.ParseFloat(m[1], 64); err == nil {
			return cv
		}
	}
	if m := kwRegexp.FindStringSubmatch(title); len(m) == 2 {
		if kw, err := strconv.ParseFloat(m[1], 64); err == nil {
			return math.Trunc(kw * 1.36)
		}
	}
	return 0
}

func kmRange(km int) string {
	switch {
	case km < 10000:
		return "0-10"
	case km < 20000:
		return "10-20"
	case km < 30000:
		return "20-30"
	case km < 40000:
		return "30-40"
	case km < 50000:
		return "40-50"
	case km < 60000:
		return "50-60"
	case km < 70000:
		return "60-70"
	case km < 80000:
		return "70-80"
	case km < 90000:
		return "80-90"
	case km < 100000:
		return "90-100"
	default:
		return ">100"
	}
}

func cvRange(cv float64) string {
	switch {
	case cv <= 0:
		return ""
	case cv < 80:
		return "0-80"
	case cv < 100:
		return "80-100"
	case cv < 120:
		return "100-120"
	case cv < 150:
		return "120-150"
	case cv < 200:
		return "150-200"
	default:
		return ">200"
	}
}

// parseIntField tolerates the stray JSON delimiters the page extractor leaves
// on the last field of a fragment.
func parseIntField(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.NewReplacer("}", "", "]", "", "\"", "").Replace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloatField(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.NewReplacer("}", "", "]", "", "\"", "").Replace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBoolField(raw string) bool {
	b, _ := parseBoolStrict(raw)
	return b
}

// parseBoolStrict only accepts explicit true/false; anything else means the
// field was absent from the fragment.
func parseBoolStrict(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
