package importer

import (
	"fmt"
	"io"

	"github.com/nebulaops/backend/internal/domain"
)

// Worksheet names used by the backup workbook. Single-dataset uploads
// may use any sheet name; only the columns matter.
const (
	SheetProducts  = "Products"
	SheetSales     = "Sales"
	SheetAds       = "Ads"
	SheetInventory = "Inventory"
)

// Column headers follow the operator-facing workbook format.
const (
	colSKU         = "子体SKU"
	colParentSKU   = "父体SKU"
	colName        = "中文名称"
	colCostCNY     = "采购成本(CNY)"
	colShipCNY     = "头程运费(CNY)"
	colStorageUSD  = "单件月度仓储费(USD)"
	colLastMileUSD = "默认尾程运费(USD)"

	colOrderID     = "订单号"
	colDate        = "日期"
	colType        = "类型"
	colAmount      = "金额(USD)"
	colShippingFee = "实际尾程运费(USD)"
	colStorageFee  = "订单仓储费(USD)"

	colTotalSpend = "总花费(USD)"

	colBaseQty     = "盘点基数"
	colBaseDate    = "盘点日期"
	colInbound     = "在途库存"
	colInboundDate = "预计到货日"
	colDailyAlgo   = "预估日销量"
	colDailyManual = "人工日销"
)

// ParseProducts reads a product catalog worksheet.
func ParseProducts(r io.Reader) ([]domain.Product, error) {
	sheet, err := openSheet(r, SheetProducts)
	if err != nil {
		return nil, err
	}
	if err := sheet.requireColumns(colSKU, colParentSKU); err != nil {
		return nil, fmt.Errorf("products sheet: %w", err)
	}

	products := make([]domain.Product, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		sku := sheet.cell(row, colSKU)
		if sku == "" {
			continue
		}

		p := domain.Product{
			SKU:       sku,
			ParentSKU: sheet.cell(row, colParentSKU),
			Name:      sheet.cell(row, colName),
		}
		if p.CostCNY, err = parseFloat(sheet.cell(row, colCostCNY)); err != nil {
			return nil, rowErr(SheetProducts, i, colCostCNY, err)
		}
		if p.ShipCNY, err = parseFloat(sheet.cell(row, colShipCNY)); err != nil {
			return nil, rowErr(SheetProducts, i, colShipCNY, err)
		}
		if p.StorageUSD, err = parseFloat(sheet.cell(row, colStorageUSD)); err != nil {
			return nil, rowErr(SheetProducts, i, colStorageUSD, err)
		}
		if p.LastMileUSD, err = parseFloat(sheet.cell(row, colLastMileUSD)); err != nil {
			return nil, rowErr(SheetProducts, i, colLastMileUSD, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// ParseSales reads a sales ledger worksheet. One row is one unit moved.
func ParseSales(r io.Reader) ([]domain.SaleRecord, error) {
	sheet, err := openSheet(r, SheetSales)
	if err != nil {
		return nil, err
	}
	if err := sheet.requireColumns(colDate, colSKU, colType, colAmount); err != nil {
		return nil, fmt.Errorf("sales sheet: %w", err)
	}

	records := make([]domain.SaleRecord, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		sku := sheet.cell(row, colSKU)
		if sku == "" {
			continue
		}

		rec := domain.SaleRecord{
			OrderID: sheet.cell(row, colOrderID),
			SKU:     sku,
			Type:    domain.SaleType(sheet.cell(row, colType)),
		}
		if rec.Date, err = parseDate(sheet.cell(row, colDate)); err != nil {
			return nil, rowErr(SheetSales, i, colDate, err)
		}
		if rec.Amount, err = parseFloat(sheet.cell(row, colAmount)); err != nil {
			return nil, rowErr(SheetSales, i, colAmount, err)
		}
		if rec.ShippingFee, err = parseFloat(sheet.cell(row, colShippingFee)); err != nil {
			return nil, rowErr(SheetSales, i, colShippingFee, err)
		}
		if rec.StorageFee, err = parseFloat(sheet.cell(row, colStorageFee)); err != nil {
			return nil, rowErr(SheetSales, i, colStorageFee, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseAds reads a daily ad spend worksheet, one row per parent per day.
func ParseAds(r io.Reader) ([]domain.AdRecord, error) {
	sheet, err := openSheet(r, SheetAds)
	if err != nil {
		return nil, err
	}
	if err := sheet.requireColumns(colDate, colParentSKU, colTotalSpend); err != nil {
		return nil, fmt.Errorf("ads sheet: %w", err)
	}

	records := make([]domain.AdRecord, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		parent := sheet.cell(row, colParentSKU)
		if parent == "" {
			continue
		}

		rec := domain.AdRecord{ParentSKU: parent}
		if rec.Date, err = parseDate(sheet.cell(row, colDate)); err != nil {
			return nil, rowErr(SheetAds, i, colDate, err)
		}
		if rec.TotalSpend, err = parseFloat(sheet.cell(row, colTotalSpend)); err != nil {
			return nil, rowErr(SheetAds, i, colTotalSpend, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseInventory reads the counted snapshot worksheet. The manual daily
// column has two accepted spellings; the first non-empty one wins.
func ParseInventory(r io.Reader) ([]domain.InventorySnapshot, error) {
	sheet, err := openSheet(r, SheetInventory)
	if err != nil {
		return nil, err
	}
	if err := sheet.requireColumns(colSKU, colBaseQty); err != nil {
		return nil, fmt.Errorf("inventory sheet: %w", err)
	}

	snaps := make([]domain.InventorySnapshot, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		sku := sheet.cell(row, colSKU)
		if sku == "" {
			continue
		}

		snap := domain.InventorySnapshot{SKU: sku}
		if snap.BaseQty, err = parseInt(sheet.cell(row, colBaseQty)); err != nil {
			return nil, rowErr(SheetInventory, i, colBaseQty, err)
		}
		if snap.BaseDate, err = parseOptionalDate(sheet.cell(row, colBaseDate)); err != nil {
			return nil, rowErr(SheetInventory, i, colBaseDate, err)
		}
		if snap.Inbound, err = parseInt(sheet.cell(row, colInbound)); err != nil {
			return nil, rowErr(SheetInventory, i, colInbound, err)
		}
		if snap.InboundDate, err = parseOptionalDate(sheet.cell(row, colInboundDate)); err != nil {
			return nil, rowErr(SheetInventory, i, colInboundDate, err)
		}

		daily := sheet.cell(row, colDailyAlgo)
		if daily == "" {
			daily = sheet.cell(row, colDailyManual)
		}
		if snap.Daily, err = parseFloat(daily); err != nil {
			return nil, rowErr(SheetInventory, i, colDailyManual, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func rowErr(sheet string, rowIdx int, column string, err error) error {
	// rowIdx is zero-based over data rows; report the worksheet row.
	return fmt.Errorf("%s sheet row %d, column %s: %w", sheet, rowIdx+2, column, err)
}
