package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
	"github.com/nebulaops/backend/internal/service"
)

type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) ListSales(c *gin.Context) {
	filter := repository.SalesFilter{SKU: strings.TrimSpace(c.Query("sku"))}

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		filter.From = &d
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		filter.To = &d
	}

	records, err := h.service.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sales", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sales": records, "total": len(records)})
}

func (h *LedgerHandler) AddSales(c *gin.Context) {
	var records []domain.SaleRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales payload", "details": err.Error()})
		return
	}

	if err := h.service.AddSales(c.Request.Context(), records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to add sales", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": len(records)})
}

func (h *LedgerHandler) UpdateSale(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}

	var rec domain.SaleRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale payload", "details": err.Error()})
		return
	}
	rec.ID = id

	if err := h.service.UpdateSale(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update sale", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *LedgerHandler) DeleteSale(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}

	if err := h.service.DeleteSale(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete sale", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) ListAds(c *gin.Context) {
	records, err := h.service.ListAds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ads", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": records, "total": len(records)})
}

func (h *LedgerHandler) AddAds(c *gin.Context) {
	var records []domain.AdRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ads payload", "details": err.Error()})
		return
	}

	if err := h.service.AddAds(c.Request.Context(), records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to add ads", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": len(records)})
}

func (h *LedgerHandler) UpdateAd(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	var rec domain.AdRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad payload", "details": err.Error()})
		return
	}
	rec.ID = id

	if err := h.service.UpdateAd(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update ad", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *LedgerHandler) DeleteAd(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	if err := h.service.DeleteAd(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ad", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
