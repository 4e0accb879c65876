package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) List(c *gin.Context) {
	filter := domain.ForecastFilter{Search: strings.TrimSpace(c.Query("search"))}

	forecasts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecasts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": forecasts,
		"total":     len(forecasts),
	})
}

func (h *ForecastHandler) Get(c *gin.Context) {
	forecast, err := h.service.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "failed to compute forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}
