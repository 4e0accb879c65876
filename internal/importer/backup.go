package importer

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/nebulaops/backend/internal/domain"
)

// Backup is the full dataset snapshot carried by one backup workbook.
type Backup struct {
	Products  []domain.Product
	Sales     []domain.SaleRecord
	Ads       []domain.AdRecord
	Inventory []domain.InventorySnapshot
}

// WriteBackup renders the four-sheet backup workbook. The sheets use
// the same headers the single-dataset imports accept, so a backup is
// restorable wholesale or sheet by sheet.
func WriteBackup(b Backup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetProducts, productHeader(), productRows(b.Products)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetSales, salesHeader(), salesRows(b.Sales)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetAds, adsHeader(), adsRows(b.Ads)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetInventory, inventoryHeader(), inventoryRows(b.Inventory)); err != nil {
		return nil, err
	}

	// Drop the implicit default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render backup workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBackup reads all four datasets back out of a backup workbook.
func ParseBackup(r io.Reader) (*Backup, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var b Backup
	if b.Products, err = ParseProducts(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	if b.Sales, err = ParseSales(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	if b.Ads, err = ParseAds(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	if b.Inventory, err = ParseInventory(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return &b, nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, name, err)
		}
	}
	return nil
}

func productHeader() []string {
	return []string{colSKU, colParentSKU, colName, colCostCNY, colShipCNY, colStorageUSD, colLastMileUSD}
}

func productRows(products []domain.Product) [][]interface{} {
	rows := make([][]interface{}, len(products))
	for i, p := range products {
		rows[i] = []interface{}{p.SKU, p.ParentSKU, p.Name, p.CostCNY, p.ShipCNY, p.StorageUSD, p.LastMileUSD}
	}
	return rows
}

func salesHeader() []string {
	return []string{colOrderID, colDate, colSKU, colType, colAmount, colShippingFee, colStorageFee}
}

func salesRows(records []domain.SaleRecord) [][]interface{} {
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = []interface{}{rec.OrderID, rec.Date.Format(dateLayout), rec.SKU, string(rec.Type), rec.Amount, rec.ShippingFee, rec.StorageFee}
	}
	return rows
}

func adsHeader() []string {
	return []string{colDate, colParentSKU, colTotalSpend}
}

func adsRows(records []domain.AdRecord) [][]interface{} {
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = []interface{}{rec.Date.Format(dateLayout), rec.ParentSKU, rec.TotalSpend}
	}
	return rows
}

func inventoryHeader() []string {
	return []string{colSKU, colBaseQty, colBaseDate, colInbound, colInboundDate, colDailyManual}
}

func inventoryRows(snaps []domain.InventorySnapshot) [][]interface{} {
	sorted := append([]domain.InventorySnapshot(nil), snaps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SKU < sorted[j].SKU })

	rows := make([][]interface{}, len(sorted))
	for i, snap := range sorted {
		baseDate := ""
		if snap.BaseDate != nil {
			baseDate = snap.BaseDate.Format(dateLayout)
		}
		inboundDate := ""
		if snap.InboundDate != nil {
			inboundDate = snap.InboundDate.Format(dateLayout)
		}
		rows[i] = []interface{}{snap.SKU, snap.BaseQty, baseDate, snap.Inbound, inboundDate, snap.Daily}
	}
	return rows
}
