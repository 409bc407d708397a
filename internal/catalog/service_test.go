package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

const testUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(6))))`

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY DEFAULT ` + testUUIDDefault + `,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  unit TEXT NOT NULL,
  unit_price NUMERIC,
  specifications TEXT,
  stock_status TEXT NOT NULL DEFAULT 'IN_STOCK',
  total_stock INTEGER NOT NULL DEFAULT 0,
  total_reserved INTEGER NOT NULL DEFAULT 0,
  total_available INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_code ON items (code);`,
		`CREATE TABLE IF NOT EXISTS stock_levels (
  id TEXT PRIMARY KEY DEFAULT ` + testUUIDDefault + `,
  item_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  current_stock INTEGER NOT NULL DEFAULT 0,
  reserved_stock INTEGER NOT NULL DEFAULT 0,
  available_stock INTEGER NOT NULL DEFAULT 0,
  minimum_level INTEGER NOT NULL DEFAULT 0,
  maximum_level INTEGER,
  reorder_point INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_levels_item_location ON stock_levels (item_id, location_id);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

type stubLocations struct {
	known map[uuid.UUID]bool
}

func (s *stubLocations) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.known[id], nil
}

type stubLedger struct {
	count int64
	err   error
}

func (s *stubLedger) CountByItem(context.Context, uuid.UUID) (int64, error) {
	return s.count, s.err
}

func newCatalogService(t *testing.T, gdb *gorm.DB, locations *stubLocations, ledger *stubLedger) Service {
	t.Helper()

	if locations == nil {
		locations = &stubLocations{known: map[uuid.UUID]bool{}}
	}
	if ledger == nil {
		ledger = &stubLedger{}
	}
	svc, err := NewService(NewRepository(gdb), locations, ledger)
	require.NoError(t, err)
	return svc
}

func TestCreateItem(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()

	wh1 := uuid.New()
	svc := newCatalogService(t, gdb, &stubLocations{known: map[uuid.UUID]bool{wh1: true}}, nil)

	dto, err := svc.CreateItem(ctx, CreateItemInput{
		Code:     "BRK-001",
		Name:     "16A MCB breaker",
		Category: enums.ItemCategoryBreaker,
		Unit:     enums.ItemUnitPiece,
		StockLevels: []StockLevelInput{
			{LocationID: wh1, CurrentStock: 100, ReservedStock: 10, MinimumLevel: 20},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "BRK-001", dto.Code)
	assert.Equal(t, enums.StockStatusInStock, dto.StockStatus)
	assert.Equal(t, 100, dto.TotalStock)
	assert.Equal(t, 10, dto.TotalReserved)
	assert.Equal(t, 90, dto.TotalAvailable)
	require.Len(t, dto.StockLevels, 1)
	assert.Equal(t, 90, dto.StockLevels[0].AvailableStock)

	_, err = svc.CreateItem(ctx, CreateItemInput{
		Code:     "BRK-001",
		Name:     "duplicate",
		Category: enums.ItemCategoryBreaker,
		Unit:     enums.ItemUnitPiece,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateItemValidation(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()

	wh1 := uuid.New()
	svc := newCatalogService(t, gdb, &stubLocations{known: map[uuid.UUID]bool{wh1: true}}, nil)

	maxBelowMin := 5
	tests := []struct {
		name  string
		input CreateItemInput
	}{
		{
			name:  "missing code",
			input: CreateItemInput{Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnitPiece},
		},
		{
			name:  "invalid category",
			input: CreateItemInput{Code: "X-1", Name: "x", Category: enums.ItemCategory("gadget"), Unit: enums.ItemUnitPiece},
		},
		{
			name:  "invalid unit",
			input: CreateItemInput{Code: "X-1", Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnit("bundle")},
		},
		{
			name: "duplicate location level",
			input: CreateItemInput{
				Code: "X-1", Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnitPiece,
				StockLevels: []StockLevelInput{
					{LocationID: wh1, CurrentStock: 1},
					{LocationID: wh1, CurrentStock: 2},
				},
			},
		},
		{
			name: "reserved exceeds current",
			input: CreateItemInput{
				Code: "X-1", Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnitPiece,
				StockLevels: []StockLevelInput{{LocationID: wh1, CurrentStock: 3, ReservedStock: 4}},
			},
		},
		{
			name: "maximum below minimum",
			input: CreateItemInput{
				Code: "X-1", Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnitPiece,
				StockLevels: []StockLevelInput{{LocationID: wh1, MinimumLevel: 10, MaximumLevel: &maxBelowMin}},
			},
		},
		{
			name: "unknown location",
			input: CreateItemInput{
				Code: "X-1", Name: "x", Category: enums.ItemCategoryBreaker, Unit: enums.ItemUnitPiece,
				StockLevels: []StockLevelInput{{LocationID: uuid.New(), CurrentStock: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func seedItem(t *testing.T, gdb *gorm.DB, code string, levels ...models.StockLevel) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:       uuid.New(),
		Code:     code,
		Name:     "Item " + code,
		Category: enums.ItemCategoryBreaker,
		Unit:     enums.ItemUnitPiece,
		IsActive: true,
	}
	for i := range levels {
		levels[i].ID = uuid.New()
		levels[i].ItemID = item.ID
	}
	item.StockLevels = levels
	ApplyDerived(item)
	require.NoError(t, gdb.Create(item).Error)
	return item
}

func TestUpdateItemStatusRules(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()
	svc := newCatalogService(t, gdb, nil, nil)

	wh1 := uuid.New()
	item := seedItem(t, gdb, "BRK-001", models.StockLevel{LocationID: wh1, CurrentStock: 100, MinimumLevel: 20})

	derived := enums.StockStatusInStock
	_, err := svc.UpdateItem(ctx, item.ID, UpdateItemInput{StockStatus: &derived})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	manual := enums.StockStatusOnOrder
	dto, err := svc.UpdateItem(ctx, item.ID, UpdateItemInput{StockStatus: &manual})
	require.NoError(t, err)
	assert.Equal(t, enums.StockStatusOnOrder, dto.StockStatus)
}

func TestUpdateItemThresholds(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()
	svc := newCatalogService(t, gdb, nil, nil)

	wh1 := uuid.New()
	item := seedItem(t, gdb, "BRK-001", models.StockLevel{LocationID: wh1, CurrentStock: 100, MinimumLevel: 20})

	// Raising the minimum above the on-hand total re-derives LOW_STOCK.
	dto, err := svc.UpdateItem(ctx, item.ID, UpdateItemInput{
		Thresholds: []ThresholdInput{{LocationID: wh1, MinimumLevel: 120, ReorderPoint: 130}},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.StockStatusLowStock, dto.StockStatus)
	require.Len(t, dto.StockLevels, 1)
	assert.Equal(t, 120, dto.StockLevels[0].MinimumLevel)

	_, err = svc.UpdateItem(ctx, item.ID, UpdateItemInput{
		Thresholds: []ThresholdInput{{LocationID: uuid.New(), MinimumLevel: 1}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSaveItemKeepsQuantitiesFromConcurrentMovement(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(gdb)

	wh1 := uuid.New()
	item := seedItem(t, gdb, "BRK-001", models.StockLevel{LocationID: wh1, CurrentStock: 100, MinimumLevel: 20})

	// Read the item the way an update handler would.
	snapshot, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.StockLevels, 1)

	// A movement commits between that read and the save.
	res := gdb.Exec(`UPDATE stock_levels
SET current_stock = current_stock - 40, available_stock = available_stock - 40
WHERE item_id = ? AND location_id = ? AND current_stock >= 40`, item.ID, wh1)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)

	snapshot.StockLevels[0].MinimumLevel = 70
	saved, err := repo.SaveItem(ctx, snapshot)
	require.NoError(t, err)

	var level models.StockLevel
	require.NoError(t, gdb.First(&level, "item_id = ? AND location_id = ?", item.ID, wh1).Error)
	assert.Equal(t, 60, level.CurrentStock, "threshold save must not rewrite ledger quantities")
	assert.Equal(t, 70, level.MinimumLevel)

	// Aggregates come from the fresh rows, not the stale snapshot.
	var stored models.Item
	require.NoError(t, gdb.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, 60, stored.TotalStock)
	assert.Equal(t, enums.StockStatusLowStock, stored.StockStatus)
	assert.Equal(t, 60, saved.TotalStock)
}

func TestDeleteItem(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()

	t.Run("no history hard deletes", func(t *testing.T) {
		svc := newCatalogService(t, gdb, nil, &stubLedger{count: 0})
		item := seedItem(t, gdb, "DEL-001")

		deleted, err := svc.DeleteItem(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		err = gdb.First(&models.Item{}, "id = ?", item.ID).Error
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("with history deactivates", func(t *testing.T) {
		svc := newCatalogService(t, gdb, nil, &stubLedger{count: 4})
		item := seedItem(t, gdb, "DEL-002")

		deleted, err := svc.DeleteItem(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		var reloaded models.Item
		require.NoError(t, gdb.First(&reloaded, "id = ?", item.ID).Error)
		assert.False(t, reloaded.IsActive)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := newCatalogService(t, gdb, nil, nil)
		_, err := svc.DeleteItem(ctx, uuid.New())
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	})
}

func TestListItems(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()
	svc := newCatalogService(t, gdb, nil, nil)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	codes := []string{"BRK-001", "BRK-002", "CBL-014", "PAN-410"}
	for i, code := range codes {
		item := &models.Item{
			ID:        uuid.New(),
			Code:      code,
			Name:      "Item " + code,
			Category:  enums.ItemCategoryBreaker,
			Unit:      enums.ItemUnitPiece,
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if code == "CBL-014" {
			item.Category = enums.ItemCategoryCabling
		}
		require.NoError(t, gdb.Create(item).Error)
		// Zero-value booleans with a column default are skipped on insert,
		// so deactivation has to be an explicit update.
		if code == "PAN-410" {
			require.NoError(t, gdb.Model(item).Update("is_active", false).Error)
		}
	}

	t.Run("filter by category", func(t *testing.T) {
		category := enums.ItemCategoryCabling
		page, err := svc.ListItems(ctx, pagination.Params{}, ListFilters{Category: &category})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CBL-014", page.Items[0].Code)
	})

	t.Run("active only", func(t *testing.T) {
		page, err := svc.ListItems(ctx, pagination.Params{}, ListFilters{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("search matches code and name", func(t *testing.T) {
		page, err := svc.ListItems(ctx, pagination.Params{}, ListFilters{Search: "brk"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("cursor pagination walks newest first", func(t *testing.T) {
		page, err := svc.ListItems(ctx, pagination.Params{Limit: 3}, ListFilters{})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "PAN-410", page.Items[0].Code)
		require.NotEmpty(t, page.NextCursor)

		rest, err := svc.ListItems(ctx, pagination.Params{Limit: 3, Cursor: page.NextCursor}, ListFilters{})
		require.NoError(t, err)
		require.Len(t, rest.Items, 1)
		assert.Equal(t, "BRK-001", rest.Items[0].Code)
		assert.Empty(t, rest.NextCursor)
	})
}
