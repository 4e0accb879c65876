package domain

// KPI is the global roll-up for a date range. Percentage fields are in
// percent units, already rounded for display.
type KPI struct {
	Revenue        float64 `json:"revenue"`
	NetProfit      float64 `json:"net_profit"`
	ROI            float64 `json:"roi"`
	Margin         float64 `json:"margin"`
	ACOS           float64 `json:"acos"`
	NetUnits       int     `json:"net_units"`
	TotalRefundQty int     `json:"total_refund_qty"`
	TotalRefundAmt float64 `json:"total_refund_amt"`
}

// ChildStat is the per-SKU slice of a parent family's performance.
type ChildStat struct {
	SKU       string  `json:"sku"`
	Revenue   float64 `json:"revenue"`
	NetProfit float64 `json:"net_profit"`
	SalesQty  int     `json:"sales_qty"`
	RefundQty int     `json:"refund_qty"`
	RefundAmt float64 `json:"refund_amt"`
}

// ParentStat aggregates one product family. Ad spend is attributed at the
// parent level and already deducted from NetProfit.
type ParentStat struct {
	SKU       string      `json:"sku"`
	Revenue   float64     `json:"revenue"`
	NetProfit float64     `json:"net_profit"`
	NetUnits  int         `json:"net_units"`
	RefundQty int         `json:"refund_qty"`
	RefundAmt float64     `json:"refund_amt"`
	AdsSpend  float64     `json:"ads_spend"`
	Margin    float64     `json:"margin"`
	ACOS      float64     `json:"acos"`
	Children  []ChildStat `json:"children"`
}

// TrendPoint is one bucket of the operating trend series. Bucket is a
// YYYY-MM-DD day or YYYY-MM month depending on the range granularity.
type TrendPoint struct {
	Bucket  string  `json:"bucket"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Ads     float64 `json:"ads"`
	ACOS    float64 `json:"acos"`
}

// DashboardResult is the full dashboard payload for a date range.
type DashboardResult struct {
	KPI     KPI          `json:"kpi"`
	Parents []ParentStat `json:"parents"`
	Trend   []TrendPoint `json:"trend"`
}

// ChildBreakdown is one child row of a parent drill-down, with ad spend
// allocated by revenue share.
type ChildBreakdown struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	UnitsSold    int     `json:"units_sold"`
	RefundQty    int     `json:"refund_qty"`
	RefundAmt    float64 `json:"refund_amt"`
	COGS         float64 `json:"cogs"`
	Fees         float64 `json:"fees"`
	AllocatedAds float64 `json:"allocated_ads"`
	NetProfit    float64 `json:"net_profit"`
}

// WeeklyPoint is one Monday-keyed week of per-child revenue.
type WeeklyPoint struct {
	WeekStart string             `json:"week_start"`
	Revenue   map[string]float64 `json:"revenue"`
}

// ParentDetail is the drill-down payload for one product family.
type ParentDetail struct {
	ParentSKU    string           `json:"parent_sku"`
	TotalRevenue float64          `json:"total_revenue"`
	TotalAds     float64          `json:"total_ads"`
	Breakdown    []ChildBreakdown `json:"breakdown"`
	Weekly       []WeeklyPoint    `json:"weekly"`
}
