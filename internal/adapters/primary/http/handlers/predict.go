package handlers

import (
	"net/http"

	"carvalue-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	price, err := h.predictSvc.Predict(c.Request.Context(), dto.ToPayload(req.Payload))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	info, err := h.registrySvc.Info()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PredictResponse{Price: price, ModelVersion: info.Version})
}

func (h *Handler) PredictBatch(c *gin.Context) {
	var req dto.PredictBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	prices, err := h.predictSvc.PredictBatch(c.Request.Context(), dto.ToPayloads(req.Payloads))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	info, err := h.registrySvc.Info()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PredictBatchResponse{Prices: prices, ModelVersion: info.Version})
}

func (h *Handler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	sel := req.ToSelection()
	schedule, err := h.scheduleSvc.Schedule(c.Request.Context(), sel)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	resp := dto.ScheduleResponse{Schedule: schedule}
	if req.WithComparison {
		comparison, err := h.scheduleSvc.CompareBrands(c.Request.Context(), sel)
		if err != nil {
			log.WithError(err).Error("brand comparison failed")
			mapDomainError(c, err)
			return
		}
		resp.Comparison = comparison
	}

	c.JSON(http.StatusOK, resp)
}
