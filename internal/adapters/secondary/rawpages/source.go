// Package rawpages extracts offer records from listing pages saved to disk by
// the scraping side. The pages embed their data as a JSON string passed to
// JSON.parse inside a script tag, so extraction works on the escaped fragment
// text rather than the DOM.
package rawpages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"carvalue-service/internal/core/domain"
)

const initialPropsMarker = "window.__INITIAL_PROPS__ = JSON.parse"

// offerRegexp captures one escaped offer fragment, from its offerType object
// up to and including its price field.
var offerRegexp = regexp.MustCompile(`\\"offerType\\":\{\\"id\\".*?\\"price\\":\d+,`)

type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Folders lists the per-vehicle subdirectories of the raw data dir, sorted.
func (s *Source) Folders(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read raw dir %s: %w", s.dir, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// Offers extracts every offer record from the saved pages of one folder.
func (s *Source) Offers(ctx context.Context, folder string) ([]domain.RawOffer, error) {
	dir := filepath.Join(s.dir, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var offers []domain.RawOffer
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", name, err)
		}
		for _, fragment := range extractFragments(string(content)) {
			offers = append(offers, parseOffer(fragment, folder))
		}
	}
	return offers, nil
}

// extractFragments returns the unescaped offer fragments of one page.
func extractFragments(content string) []string {
	idx := strings.Index(content, initialPropsMarker)
	if idx < 0 {
		return nil
	}

	matches := offerRegexp.FindAllString(content[idx:], -1)
	fragments := make([]string, len(matches))
	for i, m := range matches {
		fragments[i] = strings.ReplaceAll(m, `\`, "")
	}
	return fragments
}

func parseOffer(fragment, folder string) domain.RawOffer {
	return domain.RawOffer{
		SourceFolder:   folder,
		Title:          extractField(fragment, "title"),
		Year:           extractField(fragment, "year"),
		Km:             extractField(fragment, "km"),
		FuelTypeID:     extractField(fragment, "fuelTypeId"),
		Price:          extractField(fragment, "price"),
		IsProfessional: extractField(fragment, "isProfessional"),
		MainProvince:   extractField(fragment, "mainProvince"),
		HasWarranty:    extractField(fragment, "hasWarranty"),
		WarrantyMonths: extractField(fragment, "warrantyMonths"),
		IncludesTaxes:  extractField(fragment, "includesTaxes"),
	}
}

// extractField pulls the raw value of a key out of a fragment: everything
// between `"key":` and the next comma, quotes stripped. Empty string when the
// key is absent.
func extractField(fragment, key string) string {
	target := `"` + key + `":`
	idx := strings.Index(fragment, target)
	if idx < 0 {
		return ""
	}
	rest := fragment[idx+len(target):]
	if end := strings.Index(rest, ","); end >= 0 {
		rest = rest[:end]
	}
	return strings.Trim(rest, `"`)
}
