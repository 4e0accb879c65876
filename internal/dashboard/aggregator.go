package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/nebulaops/backend/internal/domain"
)

// commissionRate is the marketplace referral cut applied to every sale.
const commissionRate = 0.15

// monthlyGranularityDays is the range length beyond which the trend
// series switches from daily to monthly buckets.
const monthlyGranularityDays = 62

// Aggregator computes profit attribution over the raw ledgers. Like the
// forecast calculator, one Aggregator carries an immutable settings copy
// for a single pass.
type Aggregator struct {
	settings domain.PolicySettings
}

func NewAggregator(settings domain.PolicySettings) *Aggregator {
	return &Aggregator{settings: settings}
}

// saleProfit is the per-unit economics of one Sale row: amount less
// landed cost, actual last-mile fee, order storage fee and commission.
func (a *Aggregator) saleProfit(p domain.Product, s domain.SaleRecord) float64 {
	unitCost := p.UnitCost(a.settings.ExchangeRate)
	return s.Amount - unitCost - s.ShippingFee - s.StorageFee - s.Amount*commissionRate
}

// Compute rolls the filtered ledgers up into the global KPI set and the
// per-family table. Every catalog family appears, even with no sales in
// range. Ad spend is attributed at the parent level and deducted there.
func (a *Aggregator) Compute(products []domain.Product, ledger []domain.SaleRecord, ads []domain.AdRecord, rng domain.DateRange) domain.DashboardResult {
	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productMap[p.SKU] = p
	}

	type childAcc struct {
		domain.ChildStat
	}
	type parentAcc struct {
		domain.ParentStat
		children map[string]*childAcc
		order    []string
	}

	tree := make(map[string]*parentAcc)
	var parentOrder []string
	for _, p := range products {
		parent, ok := tree[p.ParentSKU]
		if !ok {
			parent = &parentAcc{
				ParentStat: domain.ParentStat{SKU: p.ParentSKU},
				children:   make(map[string]*childAcc),
			}
			tree[p.ParentSKU] = parent
			parentOrder = append(parentOrder, p.ParentSKU)
		}
		if _, ok := parent.children[p.SKU]; !ok {
			parent.children[p.SKU] = &childAcc{ChildStat: domain.ChildStat{SKU: p.SKU}}
			parent.order = append(parent.order, p.SKU)
		}
	}

	for _, s := range ledger {
		if !rng.Contains(s.Date) {
			continue
		}
		p, ok := productMap[s.SKU]
		if !ok {
			continue
		}
		parent, ok := tree[p.ParentSKU]
		if !ok {
			continue
		}
		child, ok := parent.children[s.SKU]
		if !ok {
			continue
		}

		if s.Type == domain.SaleTypeSale {
			child.Revenue += s.Amount
			child.SalesQty++
			child.NetProfit += a.saleProfit(p, s)
		} else {
			child.RefundQty++
			child.RefundAmt += math.Abs(s.Amount)
			child.NetProfit += s.Amount // refund amounts are negative
		}
	}

	adsByParent := make(map[string]float64)
	var adsTotalAll float64
	for _, ad := range ads {
		if !rng.Contains(ad.Date) {
			continue
		}
		adsByParent[ad.ParentSKU] += ad.TotalSpend
		adsTotalAll += ad.TotalSpend
	}

	var kpi domain.KPI
	parents := make([]domain.ParentStat, 0, len(parentOrder))
	for _, parentSKU := range parentOrder {
		parent := tree[parentSKU]
		parent.AdsSpend = adsByParent[parentSKU]

		for _, sku := range parent.order {
			c := parent.children[sku]
			parent.Revenue += c.Revenue
			parent.NetProfit += c.NetProfit
			parent.NetUnits += c.SalesQty - c.RefundQty
			parent.RefundAmt += c.RefundAmt
			parent.RefundQty += c.RefundQty
			parent.Children = append(parent.Children, c.ChildStat)
		}

		parent.NetProfit -= parent.AdsSpend
		parent.Margin = percentage(parent.NetProfit, parent.Revenue)
		parent.ACOS = percentage(parent.AdsSpend, parent.Revenue)

		kpi.Revenue += parent.Revenue
		kpi.NetProfit += parent.NetProfit
		kpi.NetUnits += parent.NetUnits
		kpi.TotalRefundAmt += parent.RefundAmt
		kpi.TotalRefundQty += parent.RefundQty

		parents = append(parents, parent.ParentStat)
	}

	kpi.Margin = percentage(kpi.NetProfit, kpi.Revenue)
	kpi.ACOS = percentage(adsTotalAll, kpi.Revenue)
	if totalExp := kpi.Revenue - kpi.NetProfit; totalExp > 0 {
		kpi.ROI = roundFloat(kpi.NetProfit/totalExp*100, 1)
	}

	return domain.DashboardResult{
		KPI:     kpi,
		Parents: parents,
		Trend:   a.Trend(products, ledger, ads, rng),
	}
}

// Trend buckets revenue, profit and ad spend over the range: daily
// buckets, or monthly once the range exceeds two months.
func (a *Aggregator) Trend(products []domain.Product, ledger []domain.SaleRecord, ads []domain.AdRecord, rng domain.DateRange) []domain.TrendPoint {
	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productMap[p.SKU] = p
	}

	monthly := rng.End.Sub(rng.Start).Hours()/24 > monthlyGranularityDays
	bucketOf := func(d time.Time) string {
		if monthly {
			return d.Format("2006-01")
		}
		return d.Format("2006-01-02")
	}

	type acc struct{ rev, profit, ads float64 }
	buckets := make(map[string]*acc)
	var labels []string
	for curr := rng.Start; !curr.After(rng.End); {
		k := bucketOf(curr)
		if _, ok := buckets[k]; !ok {
			buckets[k] = &acc{}
			labels = append(labels, k)
		}
		if monthly {
			curr = curr.AddDate(0, 1, 0)
		} else {
			curr = curr.AddDate(0, 0, 1)
		}
	}

	for _, s := range ledger {
		b, ok := buckets[bucketOf(s.Date)]
		if !ok {
			continue
		}
		if s.Type == domain.SaleTypeSale {
			b.rev += s.Amount
			p := productMap[s.SKU]
			b.profit += a.saleProfit(p, s)
		} else {
			b.profit += s.Amount
		}
	}

	for _, ad := range ads {
		b, ok := buckets[bucketOf(ad.Date)]
		if !ok {
			continue
		}
		b.ads += ad.TotalSpend
		b.profit -= ad.TotalSpend
	}

	out := make([]domain.TrendPoint, 0, len(labels))
	for _, k := range labels {
		b := buckets[k]
		pt := domain.TrendPoint{Bucket: k, Revenue: b.rev, Profit: b.profit, Ads: b.ads}
		if b.rev > 0 {
			pt.ACOS = b.ads / b.rev * 100
		}
		out = append(out, pt)
	}
	return out
}

// ParentDetail drills into one family: per-child economics with ad spend
// allocated by revenue share, plus a Monday-keyed weekly revenue series.
func (a *Aggregator) ParentDetail(parentSKU string, products []domain.Product, ledger []domain.SaleRecord, ads []domain.AdRecord, rng domain.DateRange) domain.ParentDetail {
	children := make([]domain.Product, 0)
	childSKUs := make(map[string]bool)
	for _, p := range products {
		if p.ParentSKU == parentSKU {
			children = append(children, p)
			childSKUs[p.SKU] = true
		}
	}

	var relevant []domain.SaleRecord
	for _, s := range ledger {
		if childSKUs[s.SKU] && rng.Contains(s.Date) {
			relevant = append(relevant, s)
		}
	}

	var totalAds float64
	for _, ad := range ads {
		if ad.ParentSKU == parentSKU && rng.Contains(ad.Date) {
			totalAds += ad.TotalSpend
		}
	}

	var totalRevenue float64
	for _, s := range relevant {
		if s.Type == domain.SaleTypeSale {
			totalRevenue += s.Amount
		}
	}

	breakdown := make([]domain.ChildBreakdown, 0, len(children))
	for _, p := range children {
		var revenue, refundSum, fees float64
		var unitsSold, refundQty int
		for _, s := range relevant {
			if s.SKU != p.SKU {
				continue
			}
			fees += s.ShippingFee + s.StorageFee
			if s.Type == domain.SaleTypeSale {
				revenue += s.Amount
				unitsSold++
			} else {
				refundQty++
				refundSum += s.Amount
			}
		}

		cogs := float64(unitsSold) * p.UnitCost(a.settings.ExchangeRate)
		commission := revenue * commissionRate

		var allocatedAds float64
		if totalRevenue > 0 {
			allocatedAds = totalAds * (revenue / totalRevenue)
		}

		breakdown = append(breakdown, domain.ChildBreakdown{
			SKU:          p.SKU,
			Name:         p.Name,
			Revenue:      revenue,
			UnitsSold:    unitsSold,
			RefundQty:    refundQty,
			RefundAmt:    math.Abs(refundSum),
			COGS:         cogs,
			Fees:         fees + commission,
			AllocatedAds: allocatedAds,
			NetProfit:    roundFloat(revenue+refundSum-cogs-fees-commission-allocatedAds, 2),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Revenue > breakdown[j].Revenue
	})

	return domain.ParentDetail{
		ParentSKU:    parentSKU,
		TotalRevenue: totalRevenue,
		TotalAds:     totalAds,
		Breakdown:    breakdown,
		Weekly:       weeklySeries(relevant),
	}
}

// weeklySeries groups Sale revenue per child per ISO week, keyed by the
// Monday of each week.
func weeklySeries(ledger []domain.SaleRecord) []domain.WeeklyPoint {
	byWeek := make(map[string]map[string]float64)
	var keys []string
	for _, s := range ledger {
		if s.Type != domain.SaleTypeSale {
			continue
		}
		k := weekStart(s.Date).Format("2006-01-02")
		if _, ok := byWeek[k]; !ok {
			byWeek[k] = make(map[string]float64)
			keys = append(keys, k)
		}
		byWeek[k][s.SKU] += s.Amount
	}

	sort.Strings(keys)
	out := make([]domain.WeeklyPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.WeeklyPoint{WeekStart: k, Revenue: byWeek[k]})
	}
	return out
}

// weekStart returns the Monday of the week containing d.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

func percentage(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return roundFloat(part/whole*100, 1)
}
