package dto

import "carvalue-service/internal/core/domain"

type PredictRequest struct {
	Payload map[string]any `json:"payload" binding:"required"`
}

type PredictBatchRequest struct {
	Payloads []map[string]any `json:"payloads" binding:"required"`
}

type PredictResponse struct {
	Price        float64 `json:"price"`
	ModelVersion string  `json:"model_version"`
}

type PredictBatchResponse struct {
	Prices       []float64 `json:"prices"`
	ModelVersion string    `json:"model_version"`
}

func ToPayload(m map[string]any) domain.PricePayload {
	return domain.PricePayload(m)
}

func ToPayloads(ms []map[string]any) []domain.PricePayload {
	payloads := make([]domain.PricePayload, len(ms))
	for i, m := range ms {
		payloads[i] = domain.PricePayload(m)
	}
	return payloads
}
