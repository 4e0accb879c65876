package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) List(c *gin.Context) {
	snaps, err := h.service.Map(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory": snaps, "total": len(snaps)})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	snap, err := h.service.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch snapshot", "details": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *InventoryHandler) Patch(c *gin.Context) {
	var patch service.SnapshotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot payload", "details": err.Error()})
		return
	}

	snap, err := h.service.Patch(c.Request.Context(), c.Param("sku"), patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update snapshot", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}
