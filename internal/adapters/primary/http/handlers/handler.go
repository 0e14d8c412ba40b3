package handlers

import (
	"carvalue-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	predictSvc  *services.PredictionService
	scheduleSvc *services.ScheduleService
	insightSvc  *services.InsightService
	datasetSvc  *services.DatasetService
	registrySvc *services.ModelRegistryService
}

func New(
	predictSvc *services.PredictionService,
	scheduleSvc *services.ScheduleService,
	insightSvc *services.InsightService,
	datasetSvc *services.DatasetService,
	registrySvc *services.ModelRegistryService,
) *Handler {
	return &Handler{
		predictSvc:  predictSvc,
		scheduleSvc: scheduleSvc,
		insightSvc:  insightSvc,
		datasetSvc:  datasetSvc,
		registrySvc: registrySvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Prediction
	r.POST("/predict", h.Predict)
	r.POST("/predict/batch", h.PredictBatch)
	r.POST("/schedule", h.Schedule)

	// Dashboard data
	r.GET("/filters", h.GetFilters)
	r.GET("/insights/price-by-brand", h.PriceByBrand)
	r.GET("/insights/price-by-fuel", h.PriceByFuelType)
	r.GET("/insights/price-by-km", h.PriceByKmRange)

	// Model registry
	r.GET("/model", h.GetModel)
	r.GET("/model/versions", h.ListModelVersions)
	r.POST("/model/reload", h.ReloadModel)

	// Dataset administration
	r.POST("/dataset/rebuild", h.RebuildDataset)
}
