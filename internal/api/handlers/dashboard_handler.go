package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Overview(c.Request.Context(), rng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DashboardHandler) Trend(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Overview(c.Request.Context(), rng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": result.Trend, "total": len(result.Trend)})
}

func (h *DashboardHandler) ParentDetail(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.service.ParentDetail(c.Request.Context(), c.Param("sku"), rng)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "failed to compute parent detail", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}
