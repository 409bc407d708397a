package cron

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
)

type fakeSweepStore struct {
	items   map[uuid.UUID]*models.Item
	writes  int
	failIDs map[uuid.UUID]bool
}

func newFakeSweepStore(items ...*models.Item) *fakeSweepStore {
	store := &fakeSweepStore{items: map[uuid.UUID]*models.Item{}, failIDs: map[uuid.UUID]bool{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (f *fakeSweepStore) ItemBatch(_ context.Context, afterID uuid.UUID, limit int) ([]models.Item, error) {
	ids := make([]uuid.UUID, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var batch []models.Item
	for _, id := range ids {
		if afterID != uuid.Nil && id.String() <= afterID.String() {
			continue
		}
		batch = append(batch, *f.items[id])
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

func (f *fakeSweepStore) UpdateItemDerived(_ context.Context, item *models.Item) error {
	if f.failIDs[item.ID] {
		return fmt.Errorf("write rejected")
	}
	stored := f.items[item.ID]
	stored.StockStatus = item.StockStatus
	stored.TotalStock = item.TotalStock
	stored.TotalReserved = item.TotalReserved
	stored.TotalAvailable = item.TotalAvailable
	f.writes++
	return nil
}

func sweepItem(status enums.StockStatus, totalStock int, levels ...models.StockLevel) *models.Item {
	return &models.Item{
		ID:          uuid.New(),
		Code:        "ITM-" + uuid.NewString()[:8],
		Name:        "sweep item",
		Category:    enums.ItemCategoryBreaker,
		Unit:        enums.ItemUnitPiece,
		StockStatus: status,
		TotalStock:  totalStock,
		IsActive:    true,
		StockLevels: levels,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func TestStockStatusJobCorrectsDrift(t *testing.T) {
	// Stored status says IN_STOCK, but the levels are empty.
	drifted := sweepItem(enums.StockStatusInStock, 40,
		models.StockLevel{CurrentStock: 0, MinimumLevel: 5},
	)
	healthy := sweepItem(enums.StockStatusInStock, 30,
		models.StockLevel{CurrentStock: 30, MinimumLevel: 5, AvailableStock: 30},
	)
	healthy.TotalAvailable = 30
	// Deactivated items still take ledger movements, so the sweep covers them.
	retired := sweepItem(enums.StockStatusInStock, 12,
		models.StockLevel{CurrentStock: 0, MinimumLevel: 1},
	)
	retired.IsActive = false

	store := newFakeSweepStore(drifted, healthy, retired)
	job, err := NewStockStatusJob(store, testLogger(), 0, 10)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 2, store.writes)
	assert.Equal(t, enums.StockStatusOutOfStock, store.items[drifted.ID].StockStatus)
	assert.Equal(t, 0, store.items[drifted.ID].TotalStock)
	assert.Equal(t, enums.StockStatusOutOfStock, store.items[retired.ID].StockStatus)
	assert.Equal(t, 0, store.items[retired.ID].TotalStock)

	// Second pass over a reconciled catalog writes nothing.
	store.writes = 0
	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, store.writes)
}

func TestStockStatusJobKeepsManualStatus(t *testing.T) {
	quarantined := sweepItem(enums.StockStatusQuarantined, 50,
		models.StockLevel{CurrentStock: 50, MinimumLevel: 5, AvailableStock: 50},
	)
	quarantined.TotalAvailable = 50

	store := newFakeSweepStore(quarantined)
	job, err := NewStockStatusJob(store, testLogger(), 0, 10)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, store.writes)
	assert.Equal(t, enums.StockStatusQuarantined, store.items[quarantined.ID].StockStatus)
}

func TestStockStatusJobContinuesPastFailures(t *testing.T) {
	first := sweepItem(enums.StockStatusInStock, 99,
		models.StockLevel{CurrentStock: 10, MinimumLevel: 1},
	)
	second := sweepItem(enums.StockStatusInStock, 99,
		models.StockLevel{CurrentStock: 20, MinimumLevel: 1},
	)

	store := newFakeSweepStore(first, second)
	store.failIDs[first.ID] = true

	job, err := NewStockStatusJob(store, testLogger(), 0, 1)
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), first.ID.String())
	// The other item still got corrected despite the failure.
	assert.Equal(t, 1, store.writes)
	assert.Equal(t, 20, store.items[second.ID].TotalStock)
}
