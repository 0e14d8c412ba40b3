package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"carvalue-service/internal/core/domain"
)

// PredictionService validates payloads against the active model's feature
// schema, encodes them into the ordered vector the ensemble expects and runs
// inference. Results are memoized: for a fixed artifact the computation is
// deterministic, so the cache is transparent to callers.
type PredictionService struct {
	models ModelProvider
	cache  *lru.Cache[string, float64]
}

func NewPredictionService(models ModelProvider, cacheSize int) (*PredictionService, error) {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, err
	}
	return &PredictionService{models: models, cache: cache}, nil
}

// Predict returns the estimated price for one payload.
func (s *PredictionService) Predict(ctx context.Context, payload domain.PricePayload) (float64, error) {
	if len(payload) == 0 {
		return 0, domain.ErrEmptyPayload
	}

	model, info, err := s.models.Current()
	if err != nil {
		return 0, err
	}

	schema := model.Schema()
	if err := validatePayload(schema, payload); err != nil {
		return 0, err
	}

	key := cacheKey(info.Version, schema, payload)
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	vector := encodePayload(schema, payload)
	price := model.Predict(vector)
	s.cache.Add(key, price)
	return price, nil
}

// PredictBatch predicts every payload, preserving order. The whole batch is
// validated before any inference so a caller never gets partial results.
func (s *PredictionService) PredictBatch(ctx context.Context, payloads []domain.PricePayload) ([]float64, error) {
	if len(payloads) == 0 {
		return nil, domain.ErrNoPayloads
	}

	model, _, err := s.models.Current()
	if err != nil {
		return nil, err
	}
	schema := model.Schema()
	for _, p := range payloads {
		if err := validatePayload(schema, p); err != nil {
			return nil, err
		}
	}

	out := make([]float64, len(payloads))
	for i, p := range payloads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		price, err := s.Predict(ctx, p)
		if err != nil {
			return nil, err
		}
		out[i] = price
	}
	return out, nil
}

func validatePayload(schema domain.FeatureSchema, payload domain.PricePayload) error {
	schemaErr := &domain.SchemaError{}

	for _, field := range schema.Fields {
		value, ok := payload[field.Name]
		if !ok {
			schemaErr.Missing = append(schemaErr.Missing, field.Name)
			continue
		}
		switch field.Kind {
		case domain.FeatureNumeric:
			if _, ok := toFloat(value); !ok {
				schemaErr.Invalid = append(schemaErr.Invalid, field.Name)
			}
		case domain.FeatureCategorical:
			s, ok := value.(string)
			if !ok || strings.TrimSpace(s) == "" {
				schemaErr.Invalid = append(schemaErr.Invalid, field.Name)
			}
		}
	}

	for key := range payload {
		if _, ok := schema.Field(key); !ok {
			schemaErr.Extra = append(schemaErr.Extra, key)
		}
	}
	sort.Strings(schemaErr.Extra)

	if len(schemaErr.Missing) > 0 || len(schemaErr.Extra) > 0 || len(schemaErr.Invalid) > 0 {
		return schemaErr
	}
	return nil
}

// encodePayload lays the payload out as the schema-ordered vector: numerics
// as-is, categoricals one-hot over the stored levels. An unknown level of a
// known categorical encodes to all zeros, matching the training-side encoder.
func encodePayload(schema domain.FeatureSchema, payload domain.PricePayload) []float64 {
	vector := make([]float64, 0, schema.Width())
	for _, field := range schema.Fields {
		value := payload[field.Name]
		switch field.Kind {
		case domain.FeatureNumeric:
			f, _ := toFloat(value)
			vector = append(vector, f)
		case domain.FeatureCategorical:
			s, _ := value.(string)
			for _, level := range field.Levels {
				if level == s {
					vector = append(vector, 1)
				} else {
					vector = append(vector, 0)
				}
			}
		}
	}
	return vector
}

// cacheKey is a canonical encoding of the payload in schema order, prefixed
// with the model version so a reload never serves stale prices.
func cacheKey(version string, schema domain.FeatureSchema, payload domain.PricePayload) string {
	var b strings.Builder
	b.WriteString(version)
	for _, field := range schema.Fields {
		b.WriteByte('|')
		b.WriteString(field.Name)
		b.WriteByte('=')
		switch field.Kind {
		case domain.FeatureNumeric:
			f, _ := toFloat(payload[field.Name])
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case domain.FeatureCategorical:
			s, _ := payload[field.Name].(string)
			b.WriteString(s)
		}
	}
	return b.String()
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case fmt.Stringer:
		f, err := strconv.ParseFloat(v.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
