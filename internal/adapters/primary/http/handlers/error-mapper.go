package handlers

import (
	"errors"
	"net/http"

	"carvalue-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   schemaErr.Error(),
			"missing": emptyAsList(schemaErr.Missing),
			"extra":   emptyAsList(schemaErr.Extra),
			"invalid": emptyAsList(schemaErr.Invalid),
		})
		return
	}

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrCatalogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrNoPayloads),
		errors.Is(err, domain.ErrInvalidAge),
		errors.Is(err, domain.ErrInvalidKm),
		errors.Is(err, domain.ErrUnknownBrand),
		errors.Is(err, domain.ErrNoBrandOptions),
		errors.Is(err, domain.ErrCatalogInvalid),
		errors.Is(err, domain.ErrEmptyDataset):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrRebuildRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Model unavailable
	case errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrArtifactCorrupt),
		errors.Is(err, domain.ErrNoModelVersions),
		errors.Is(err, domain.ErrModelNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func emptyAsList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
