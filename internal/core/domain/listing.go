package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawOffer is one offer record as extracted from a saved listing page, before
// any cleaning. Values are kept as strings because the page embeds them inside
// a JSON blob with inconsistent typing.
type RawOffer struct {
	SourceFolder   string
	Title          string
	Year           string
	Km             string
	FuelTypeID     string
	Price          string
	IsProfessional string
	MainProvince   string
	HasWarranty    string
	WarrantyMonths string
	IncludesTaxes  string
}

// Listing is a cleaned, catalog-merged car listing ready for aggregation.
type Listing struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	Segment        string    `json:"segment"`
	BodyType       string    `json:"body_type"`
	FuelType       string    `json:"fuel_type"`
	Year           int       `json:"year"`
	Age            int       `json:"age"`
	Km             int       `json:"km"`
	KmRange        string    `json:"km_range"`
	PowerCV        float64   `json:"power_cv"`
	CVRange        string    `json:"cv_range"`
	Price          float64   `json:"price"`
	PriceCalc      float64   `json:"price_calc"`
	Province       string    `json:"province"`
	IsProfessional bool      `json:"is_professional"`
	WarrantyMonths int       `json:"warranty_months"`
	CreatedAt      time.Time `json:"created_at"`
}

// CatalogEntry maps a raw-data source folder to the vehicle identity used for
// the catalog merge.
type CatalogEntry struct {
	Folder   string `yaml:"folder"`
	Brand    string `yaml:"brand"`
	Model    string `yaml:"model"`
	Segment  string `yaml:"segment"`
	BodyType string `yaml:"body_type"`
}

// FilterOptions are the selectable values the dashboard sidebar offers.
type FilterOptions struct {
	FuelTypes []string   `json:"fuel_types"`
	Brands    []string   `json:"brands"`
	Segments  []string   `json:"segments"`
	BodyTypes []string   `json:"body_types"`
	AgeRange  ValueRange `json:"age_range"`
	KmRange   ValueRange `json:"km_range"`
}

type ValueRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GroupStat is one aggregated chart point: average price and listing count for
// a group value (brand, fuel type, km bucket).
type GroupStat struct {
	Group    string  `json:"group"`
	AvgPrice float64 `json:"avg_price"`
	Count    int     `json:"count"`
}

// DatasetReport summarizes a dataset rebuild.
type DatasetReport struct {
	Folders   int       `json:"folders"`
	Extracted int       `json:"extracted"`
	Cleaned   int       `json:"cleaned"`
	Dropped   int       `json:"dropped"`
	Stored    int       `json:"stored"`
	BuiltAt   time.Time `json:"built_at"`
}
