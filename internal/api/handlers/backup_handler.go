package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BackupHandler struct {
	service *service.BackupService
}

func NewBackupHandler(service *service.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// Export streams the four-sheet backup workbook as a download.
func (h *BackupHandler) Export(c *gin.Context) {
	filename, payload, err := h.service.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build backup", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, payload)
}

// Restore replaces all datasets from an uploaded backup workbook.
func (h *BackupHandler) Restore(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload", "details": err.Error()})
		return
	}
	defer src.Close()

	b, err := h.service.Restore(c.Request.Context(), src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restore failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  len(b.Products),
		"sales":     len(b.Sales),
		"ads":       len(b.Ads),
		"inventory": len(b.Inventory),
	})
}

// Archives lists the backup copies held in object storage.
func (h *BackupHandler) Archives(c *gin.Context) {
	archives, err := h.service.Archives(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list archives", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"archives": archives, "total": len(archives)})
}

// FetchArchive streams one stored backup by filename.
func (h *BackupHandler) FetchArchive(c *gin.Context) {
	name := c.Param("name")

	payload, err := h.service.FetchArchive(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive not found", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, payload)
}
