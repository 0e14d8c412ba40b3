package handlers

import (
	"net/http"

	"carvalue-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetModel(c *gin.Context) {
	info, err := h.registrySvc.Info()
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelInfoResponse(info))
}

func (h *Handler) ListModelVersions(c *gin.Context) {
	versions, err := h.registrySvc.Versions()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	resp := dto.ModelVersionsResponse{Versions: versions}
	if info, err := h.registrySvc.Info(); err == nil {
		resp.Active = info.Version
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ReloadModel(c *gin.Context) {
	var req dto.ReloadModelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	info, err := h.registrySvc.Load(req.Version)
	if err != nil {
		log.WithError(err).WithField("version", req.Version).Error("model reload failed")
		mapDomainError(c, err)
		return
	}

	log.WithField("version", info.Version).Info("model reloaded")
	c.JSON(http.StatusOK, dto.ToModelInfoResponse(info))
}
