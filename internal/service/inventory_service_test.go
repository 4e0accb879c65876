package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaops/backend/internal/domain"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func newInventoryFixture(t *testing.T, snaps ...domain.InventorySnapshot) (*InventoryService, *countingForecastCache) {
	t.Helper()

	cacheSpy := &countingForecastCache{}
	forecasts := NewForecastService(newMemProducts(), newMemSales(), newMemInventory(), &memSettings{}, cacheSpy)
	dashboards := NewDashboardService(newMemProducts(), newMemSales(), newMemAds(), &memSettings{}, nil)

	svc := NewInventoryService(newMemInventory(snaps...), forecasts, dashboards)
	svc.now = func() time.Time { return day("2025-03-10") }
	return svc, cacheSpy
}

func TestInventoryPatchBaseQtyRestampsBaseDate(t *testing.T) {
	svc, cacheSpy := newInventoryFixture(t, domain.InventorySnapshot{
		SKU:      "LAMP-BLK",
		BaseQty:  100,
		BaseDate: dayPtr("2025-02-01"),
	})

	snap, err := svc.Patch(context.Background(), "LAMP-BLK", SnapshotPatch{BaseQty: intPtr(80)})
	require.NoError(t, err)

	assert.Equal(t, 80, snap.BaseQty)
	require.NotNil(t, snap.BaseDate)
	assert.Equal(t, day("2025-03-10"), *snap.BaseDate)
	assert.Equal(t, 1, cacheSpy.invalidations)
}

func TestInventoryPatchSameBaseQtyKeepsBaseDate(t *testing.T) {
	svc, _ := newInventoryFixture(t, domain.InventorySnapshot{
		SKU:      "LAMP-BLK",
		BaseQty:  100,
		BaseDate: dayPtr("2025-02-01"),
	})

	snap, err := svc.Patch(context.Background(), "LAMP-BLK", SnapshotPatch{BaseQty: intPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, day("2025-02-01"), *snap.BaseDate)
}

func TestInventoryPatchExplicitBaseDateWins(t *testing.T) {
	svc, _ := newInventoryFixture(t, domain.InventorySnapshot{SKU: "LAMP-BLK", BaseQty: 100})

	snap, err := svc.Patch(context.Background(), "LAMP-BLK", SnapshotPatch{
		BaseQty:  intPtr(50),
		BaseDate: dayPtr("2025-03-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, day("2025-03-01"), *snap.BaseDate)
}

func TestInventoryPatchCreatesSnapshot(t *testing.T) {
	svc, _ := newInventoryFixture(t)

	snap, err := svc.Patch(context.Background(), "LAMP-WHT", SnapshotPatch{
		Inbound:     intPtr(200),
		InboundDate: dayPtr("2025-04-01"),
		Daily:       floatPtr(2.5),
	})
	require.NoError(t, err)

	assert.Equal(t, "LAMP-WHT", snap.SKU)
	assert.Equal(t, 200, snap.Inbound)
	assert.Equal(t, 2.5, snap.Daily)
	assert.Nil(t, snap.BaseDate)

	stored, err := svc.Get(context.Background(), "LAMP-WHT")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 200, stored.Inbound)
}
