package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/service"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product", "details": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Save(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload", "details": err.Error()})
		return
	}
	p.SKU = c.Param("sku")

	if err := h.service.Save(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to save product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("sku")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
