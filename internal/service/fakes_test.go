package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

// In-memory repositories backing the service tests.

type memProducts struct {
	items map[string]domain.Product
}

func newMemProducts(products ...domain.Product) *memProducts {
	m := &memProducts{items: make(map[string]domain.Product)}
	for _, p := range products {
		m.items[p.SKU] = p
	}
	return m
}

func (m *memProducts) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (m *memProducts) Get(ctx context.Context, sku string) (*domain.Product, error) {
	p, ok := m.items[sku]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProducts) Upsert(ctx context.Context, p domain.Product) error {
	m.items[p.SKU] = p
	return nil
}

func (m *memProducts) BulkUpsert(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		m.items[p.SKU] = p
	}
	return nil
}

func (m *memProducts) Delete(ctx context.Context, sku string) error {
	delete(m.items, sku)
	return nil
}

type memSales struct {
	items  []domain.SaleRecord
	nextID int64
}

func newMemSales(records ...domain.SaleRecord) *memSales {
	m := &memSales{nextID: 1}
	m.items = append(m.items, records...)
	for i := range m.items {
		m.items[i].ID = m.nextID
		m.nextID++
	}
	return m
}

func (m *memSales) List(ctx context.Context, filter repository.SalesFilter) ([]domain.SaleRecord, error) {
	out := make([]domain.SaleRecord, 0, len(m.items))
	for _, rec := range m.items {
		if filter.SKU != "" && rec.SKU != filter.SKU {
			continue
		}
		if filter.From != nil && rec.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.Date.After(*filter.To) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memSales) BulkInsert(ctx context.Context, records []domain.SaleRecord) error {
	for _, rec := range records {
		rec.ID = m.nextID
		m.nextID++
		m.items = append(m.items, rec)
	}
	return nil
}

func (m *memSales) Update(ctx context.Context, rec domain.SaleRecord) error {
	for i := range m.items {
		if m.items[i].ID == rec.ID {
			m.items[i] = rec
			return nil
		}
	}
	return fmt.Errorf("sale %d not found", rec.ID)
}

func (m *memSales) Delete(ctx context.Context, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("sale %d not found", id)
}

func (m *memSales) ReplaceAll(ctx context.Context, records []domain.SaleRecord) error {
	m.items = nil
	return m.BulkInsert(ctx, records)
}

type memAds struct {
	items  []domain.AdRecord
	nextID int64
}

func newMemAds(records ...domain.AdRecord) *memAds {
	m := &memAds{nextID: 1}
	for _, rec := range records {
		rec.ID = m.nextID
		m.nextID++
		m.items = append(m.items, rec)
	}
	return m
}

func (m *memAds) List(ctx context.Context) ([]domain.AdRecord, error) {
	return append([]domain.AdRecord(nil), m.items...), nil
}

func (m *memAds) BulkInsert(ctx context.Context, records []domain.AdRecord) error {
	for _, rec := range records {
		rec.ID = m.nextID
		m.nextID++
		m.items = append(m.items, rec)
	}
	return nil
}

func (m *memAds) Update(ctx context.Context, rec domain.AdRecord) error {
	for i := range m.items {
		if m.items[i].ID == rec.ID {
			m.items[i] = rec
			return nil
		}
	}
	return fmt.Errorf("ad %d not found", rec.ID)
}

func (m *memAds) Delete(ctx context.Context, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("ad %d not found", id)
}

func (m *memAds) ReplaceAll(ctx context.Context, records []domain.AdRecord) error {
	m.items = nil
	return m.BulkInsert(ctx, records)
}

type memInventory struct {
	items map[string]domain.InventorySnapshot
}

func newMemInventory(snaps ...domain.InventorySnapshot) *memInventory {
	m := &memInventory{items: make(map[string]domain.InventorySnapshot)}
	for _, snap := range snaps {
		m.items[snap.SKU] = snap
	}
	return m
}

func (m *memInventory) Map(ctx context.Context) (map[string]domain.InventorySnapshot, error) {
	out := make(map[string]domain.InventorySnapshot, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out, nil
}

func (m *memInventory) Get(ctx context.Context, sku string) (*domain.InventorySnapshot, error) {
	snap, ok := m.items[sku]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memInventory) Upsert(ctx context.Context, snap domain.InventorySnapshot) error {
	m.items[snap.SKU] = snap
	return nil
}

func (m *memInventory) ReplaceAll(ctx context.Context, snaps []domain.InventorySnapshot) error {
	m.items = make(map[string]domain.InventorySnapshot, len(snaps))
	for _, snap := range snaps {
		m.items[snap.SKU] = snap
	}
	return nil
}

type memSettings struct {
	stored *domain.PolicySettings
}

func (m *memSettings) Get(ctx context.Context) (domain.PolicySettings, error) {
	if m.stored == nil {
		return domain.DefaultPolicySettings(), nil
	}
	return *m.stored, nil
}

func (m *memSettings) Save(ctx context.Context, st domain.PolicySettings) error {
	m.stored = &st
	return nil
}

// countingForecastCache records invalidations and otherwise misses.
type countingForecastCache struct {
	invalidations int
}

func (c *countingForecastCache) Get(ctx context.Context, asOf time.Time, filter domain.ForecastFilter) ([]domain.SKUForecast, bool, error) {
	return nil, false, nil
}

func (c *countingForecastCache) Set(ctx context.Context, asOf time.Time, filter domain.ForecastFilter, forecasts []domain.SKUForecast) error {
	return nil
}

func (c *countingForecastCache) InvalidateAll(ctx context.Context) error {
	c.invalidations++
	return nil
}

type countingDashboardCache struct {
	invalidations int
}

func (c *countingDashboardCache) Get(ctx context.Context, rng domain.DateRange) (*domain.DashboardResult, bool, error) {
	return nil, false, nil
}

func (c *countingDashboardCache) Set(ctx context.Context, rng domain.DateRange, result *domain.DashboardResult) error {
	return nil
}

func (c *countingDashboardCache) InvalidateAll(ctx context.Context) error {
	c.invalidations++
	return nil
}
