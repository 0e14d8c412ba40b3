package handlers

import (
	"net/http"

	"carvalue-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetFilters(c *gin.Context) {
	opts, err := h.insightSvc.FilterOptions(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("load filter options failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFilterOptionsResponse(opts))
}

func (h *Handler) PriceByBrand(c *gin.Context) {
	stats, err := h.insightSvc.PriceByBrand(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupStatsResponse(stats))
}

func (h *Handler) PriceByFuelType(c *gin.Context) {
	stats, err := h.insightSvc.PriceByFuelType(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupStatsResponse(stats))
}

func (h *Handler) PriceByKmRange(c *gin.Context) {
	stats, err := h.insightSvc.PriceByKmRange(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupStatsResponse(stats))
}
