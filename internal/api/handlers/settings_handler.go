package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/service"
)

type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	st, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, st)
}

func (h *SettingsHandler) Save(c *gin.Context) {
	var st domain.PolicySettings
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload", "details": err.Error()})
		return
	}

	if err := h.service.Save(c.Request.Context(), st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to save settings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, st)
}
