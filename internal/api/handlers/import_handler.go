package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/importer"
	"github.com/nebulaops/backend/internal/service"
)

// ImportHandler accepts one workbook upload per dataset. Products and
// inventory rows merge by SKU; sales and ads rows append to the ledger.
type ImportHandler struct {
	catalog   *service.CatalogService
	ledger    *service.LedgerService
	inventory *service.InventoryService
}

func NewImportHandler(catalog *service.CatalogService, ledger *service.LedgerService, inventory *service.InventoryService) *ImportHandler {
	return &ImportHandler{catalog: catalog, ledger: ledger, inventory: inventory}
}

func (h *ImportHandler) Import(c *gin.Context) {
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

	count, err := h.importDataset(c, c.Param("dataset"), src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "import failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *ImportHandler) importDataset(c *gin.Context, dataset string, src multipart.File) (int, error) {
	ctx := c.Request.Context()

	switch dataset {
	case "products":
		products, err := importer.ParseProducts(src)
		if err != nil {
			return 0, err
		}
		return len(products), h.catalog.SaveAll(ctx, products)

	case "sales":
		records, err := importer.ParseSales(src)
		if err != nil {
			return 0, err
		}
		return len(records), h.ledger.AddSales(ctx, records)

	case "ads":
		records, err := importer.ParseAds(src)
		if err != nil {
			return 0, err
		}
		return len(records), h.ledger.AddAds(ctx, records)

	case "inventory":
		snaps, err := importer.ParseInventory(src)
		if err != nil {
			return 0, err
		}
		return len(snaps), h.inventory.Merge(ctx, snaps)

	default:
		return 0, fmt.Errorf("unknown dataset %q, expected products, sales, ads or inventory", dataset)
	}
}
