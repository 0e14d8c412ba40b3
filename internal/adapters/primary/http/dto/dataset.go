package dto

import (
	"time"

	"carvalue-service/internal/core/domain"
)

type DatasetReportResponse struct {
	Folders   int       `json:"folders"`
	Extracted int       `json:"extracted"`
	Cleaned   int       `json:"cleaned"`
	Dropped   int       `json:"dropped"`
	Stored    int       `json:"stored"`
	BuiltAt   time.Time `json:"built_at"`
}

func ToDatasetReportResponse(r *domain.DatasetReport) DatasetReportResponse {
	return DatasetReportResponse{
		Folders:   r.Folders,
		Extracted: r.Extracted,
		Cleaned:   r.Cleaned,
		Dropped:   r.Dropped,
		Stored:    r.Stored,
		BuiltAt:   r.BuiltAt,
	}
}
