package handlers

import (
	"net/http"

	"carvalue-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) RebuildDataset(c *gin.Context) {
	report, err := h.datasetSvc.Rebuild(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("dataset rebuild failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDatasetReportResponse(report))
}
