package dto

import (
	"time"

	"carvalue-service/internal/core/domain"
)

type ModelInfoResponse struct {
	Version   string    `json:"version"`
	Target    string    `json:"target"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
	Features  []string  `json:"features"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func ToModelInfoResponse(info domain.ModelInfo) ModelInfoResponse {
	return ModelInfoResponse{
		Version:   info.Version,
		Target:    info.Metadata.Target,
		Samples:   info.Metadata.Samples,
		TrainedAt: info.Metadata.TrainedAt,
		Features:  info.Schema.FieldNames(),
		LoadedAt:  info.LoadedAt,
	}
}

type ModelVersionsResponse struct {
	Versions []string `json:"versions"`
	Active   string   `json:"active,omitempty"`
}

type ReloadModelRequest struct {
	// Version pins a specific dated version; empty means newest.
	Version string `json:"version"`
}
