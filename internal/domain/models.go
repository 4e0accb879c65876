package domain

import "time"

// SaleType distinguishes ledger entries. Each row is one unit moved.
type SaleType string

const (
	SaleTypeSale   SaleType = "Sale"
	SaleTypeRefund SaleType = "Refund"
)

// Product is one sellable SKU variant. CostCNY and ShipCNY are in source
// currency; StorageUSD and LastMileUSD are settlement-currency per unit.
type Product struct {
	SKU         string    `json:"sku" db:"sku"`
	ParentSKU   string    `json:"parent_sku" db:"parent_sku"`
	Name        string    `json:"name" db:"name"`
	CostCNY     float64   `json:"cost_cny" db:"cost_cny"`
	ShipCNY     float64   `json:"ship_cny" db:"ship_cny"`
	StorageUSD  float64   `json:"storage_usd" db:"storage_usd"`
	LastMileUSD float64   `json:"last_mile_usd" db:"last_mile_usd"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UnitCost converts landed cost (purchase + first-leg freight) into the
// settlement currency at the given exchange rate.
func (p Product) UnitCost(exchangeRate float64) float64 {
	if exchangeRate == 0 {
		return 0
	}
	return (p.CostCNY + p.ShipCNY) / exchangeRate
}

// SaleRecord is one historical transaction from the sales ledger.
// The ledger is append-only from the forecast engine's point of view.
type SaleRecord struct {
	ID          int64     `json:"id" db:"id"`
	OrderID     string    `json:"order_id" db:"order_id"`
	Date        time.Time `json:"date" db:"date"`
	SKU         string    `json:"sku" db:"sku"`
	Type        SaleType  `json:"type" db:"type"`
	Amount      float64   `json:"amount" db:"amount"`
	ShippingFee float64   `json:"shipping_fee" db:"shipping_fee"`
	StorageFee  float64   `json:"storage_fee" db:"storage_fee"`
}

// AdRecord is one day of ad spend attributed to a product family.
type AdRecord struct {
	ID         int64     `json:"id" db:"id"`
	Date       time.Time `json:"date" db:"date"`
	ParentSKU  string    `json:"parent_sku" db:"parent_sku"`
	TotalSpend float64   `json:"total_spend" db:"total_spend"`
}

// InventorySnapshot is the manually maintained inventory state for one SKU.
// BaseQty was counted on BaseDate; Inbound is in transit with an optional
// ETA. Daily > 0 overrides the computed sales velocity.
type InventorySnapshot struct {
	SKU         string     `json:"sku" db:"sku"`
	BaseQty     int        `json:"base_qty" db:"base_qty"`
	BaseDate    *time.Time `json:"base_date" db:"base_date"`
	Inbound     int        `json:"inbound" db:"inbound"`
	InboundDate *time.Time `json:"inbound_date" db:"inbound_date"`
	Daily       float64    `json:"daily" db:"daily"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PolicySettings is the single shared replenishment policy record. It is
// read as an immutable value for the duration of one recomputation pass.
type PolicySettings struct {
	ExchangeRate       float64 `json:"exchange_rate" db:"exchange_rate"`
	LeadTime           int     `json:"lead_time" db:"lead_time"`
	SafetyStock        int     `json:"safety_stock" db:"safety_stock"`
	DeadStockThreshold int     `json:"dead_stock_threshold" db:"dead_stock_threshold"`
}

// DefaultPolicySettings returns the settings applied before any
// configuration has been saved.
func DefaultPolicySettings() PolicySettings {
	return PolicySettings{
		ExchangeRate:       7.2,
		LeadTime:           60,
		SafetyStock:        30,
		DeadStockThreshold: 120,
	}
}

// SKUForecast is the full derived record for one SKU. It is recomputed on
// every access and never persisted.
type SKUForecast struct {
	SKU       string `json:"sku"`
	ParentSKU string `json:"parent_sku"`
	Name      string `json:"name"`

	Snapshot InventorySnapshot `json:"snapshot"`

	// Stock reconciliation
	SalesSince   int `json:"sales_since"`
	CurrentStock int `json:"current_stock"`

	// Velocity
	Avg7       float64 `json:"avg_7"`
	Avg30      float64 `json:"avg_30"`
	AlgoDaily  float64 `json:"algo_daily"`
	FinalDaily float64 `json:"final_daily"`
	IsManual   bool    `json:"is_manual"`
	Trend      Trend   `json:"trend"`

	// Timeline
	RunOutDate time.Time `json:"run_out_date"`
	GapDays    int       `json:"gap_days"`
	GapQty     int       `json:"gap_qty"`
	DOS        int       `json:"dos"`
	StockBand  StockBand `json:"stock_band"`

	// Replenishment decision
	TargetQty  int `json:"target_qty"`
	AirRestock int `json:"air_restock"`
	SeaRestock int `json:"sea_restock"`

	// Dead stock exposure
	DeadQty      float64 `json:"dead_qty"`
	DeadValue    float64 `json:"dead_value"`
	BleedingCost float64 `json:"bleeding_cost"`
}

// ForecastFilter narrows the forecast listing. Terms are AND-matched
// case-insensitively against SKU, parent SKU and product name.
type ForecastFilter struct {
	Search string `json:"search"`
}

// DateRange bounds dashboard aggregations, inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
