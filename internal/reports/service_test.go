package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

func setupReportTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS stock_locations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT,
  city TEXT,
  notes TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_name TEXT,
  contact_email TEXT,
  contact_phone TEXT,
  payment_terms TEXT,
  lead_time_days INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
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
		`CREATE TABLE IF NOT EXISTS stock_levels (
  id TEXT PRIMARY KEY,
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
		`CREATE TABLE IF NOT EXISTS stock_transactions (
  id TEXT PRIMARY KEY,
  reference TEXT NOT NULL,
  item_id TEXT NOT NULL,
  type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC,
  total_value NUMERIC,
  from_location_id TEXT,
  to_location_id TEXT,
  project_ref TEXT,
  supplier_id TEXT,
  performed_by TEXT NOT NULL,
  transaction_at DATETIME NOT NULL,
  stock_before INTEGER NOT NULL,
  stock_after INTEGER NOT NULL,
  notes TEXT,
  document_ref TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newReportService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	return svc
}

func seedReportFixtures(t *testing.T, gdb *gorm.DB) (wh1 uuid.UUID, breakerID uuid.UUID) {
	t.Helper()

	wh1 = uuid.New()
	require.NoError(t, gdb.Create(&models.StockLocation{ID: wh1, Name: "WH1", IsActive: true}).Error)

	price := decimal.RequireFromString("12.50")
	breaker := &models.Item{
		ID:             uuid.New(),
		Code:           "BRK-001",
		Name:           "16A MCB breaker",
		Category:       enums.ItemCategoryBreaker,
		Unit:           enums.ItemUnitPiece,
		UnitPrice:      &price,
		StockStatus:    enums.StockStatusInStock,
		TotalStock:     100,
		TotalReserved:  10,
		TotalAvailable: 90,
		IsActive:       true,
		StockLevels: []models.StockLevel{{
			ID:             uuid.New(),
			LocationID:     wh1,
			CurrentStock:   100,
			ReservedStock:  10,
			AvailableStock: 90,
			MinimumLevel:   20,
		}},
	}
	require.NoError(t, gdb.Create(breaker).Error)
	breakerID = breaker.ID

	unpriced := &models.Item{
		ID:          uuid.New(),
		Code:        "CBL-014",
		Name:        "Solar cable 6mm",
		Category:    enums.ItemCategoryCabling,
		Unit:        enums.ItemUnitMeter,
		StockStatus: enums.StockStatusOutOfStock,
		IsActive:    true,
	}
	require.NoError(t, gdb.Create(unpriced).Error)

	inactive := &models.Item{
		ID:          uuid.New(),
		Code:        "OLD-999",
		Name:        "retired part",
		Category:    enums.ItemCategoryOther,
		Unit:        enums.ItemUnitPiece,
		StockStatus: enums.StockStatusDiscontinued,
		TotalStock:  7,
		IsActive:    true,
	}
	require.NoError(t, gdb.Create(inactive).Error)
	require.NoError(t, gdb.Model(inactive).Update("is_active", false).Error)

	at := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	transactions := []models.StockTransaction{
		{
			ID: uuid.New(), Reference: "TXN-PUR-20260815-AAAAAAA2", ItemID: breakerID,
			Type: enums.TransactionTypePurchase, Quantity: 50, ToLocationID: &wh1,
			PerformedBy: "jvermeer", TransactionAt: at, StockBefore: 50, StockAfter: 100,
		},
		{
			ID: uuid.New(), Reference: "TXN-SAL-20260816-AAAAAAA3", ItemID: breakerID,
			Type: enums.TransactionTypeSale, Quantity: 30, FromLocationID: &wh1,
			PerformedBy: "jvermeer", TransactionAt: at.Add(24 * time.Hour), StockBefore: 100, StockAfter: 70,
		},
		{
			ID: uuid.New(), Reference: "TXN-SAL-20260817-AAAAAAA4", ItemID: breakerID,
			Type: enums.TransactionTypeSale, Quantity: 10, FromLocationID: &wh1,
			PerformedBy: "jvermeer", TransactionAt: at.Add(48 * time.Hour), StockBefore: 70, StockAfter: 60,
		},
	}
	for i := range transactions {
		transactions[i].CreatedAt = transactions[i].TransactionAt
		require.NoError(t, gdb.Create(&transactions[i]).Error)
	}
	return wh1, breakerID
}

func TestStockReport(t *testing.T) {
	gdb := setupReportTestDB(t)
	seedReportFixtures(t, gdb)
	svc := newReportService(t, gdb)

	report, err := svc.StockReport(context.Background(), StockReportFilters{})
	require.NoError(t, err)

	// Inactive items stay out of the report.
	require.Len(t, report.Lines, 2)
	assert.Equal(t, "BRK-001", report.Lines[0].Code)
	assert.Equal(t, 100, report.TotalStock)
	assert.Equal(t, 10, report.TotalReserved)
	assert.Equal(t, 90, report.TotalAvailable)
	assert.Equal(t, 1, report.StatusCounts["IN_STOCK"])
	assert.Equal(t, 1, report.StatusCounts["OUT_OF_STOCK"])

	require.Len(t, report.Lines[0].Locations, 1)
	assert.Equal(t, "WH1", report.Lines[0].Locations[0].LocationName)
}

func TestStockReportFilters(t *testing.T) {
	gdb := setupReportTestDB(t)
	wh1, _ := seedReportFixtures(t, gdb)
	svc := newReportService(t, gdb)

	report, err := svc.StockReport(context.Background(), StockReportFilters{LocationID: &wh1})
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "BRK-001", report.Lines[0].Code)

	status := enums.StockStatusOutOfStock
	report, err = svc.StockReport(context.Background(), StockReportFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "CBL-014", report.Lines[0].Code)
}

func TestMovementReport(t *testing.T) {
	gdb := setupReportTestDB(t)
	seedReportFixtures(t, gdb)
	svc := newReportService(t, gdb)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	report, err := svc.MovementReport(context.Background(), MovementWindow{From: from, To: to})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TransactionCount)
	assert.Equal(t, 50, report.QuantityIn)
	assert.Equal(t, 40, report.QuantityOut)
	require.Len(t, report.ByType, 2)

	_, err = svc.MovementReport(context.Background(), MovementWindow{From: to, To: from})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestValuationReport(t *testing.T) {
	gdb := setupReportTestDB(t)
	seedReportFixtures(t, gdb)
	svc := newReportService(t, gdb)

	report, err := svc.ValuationReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Lines, 2)
	assert.Equal(t, "BRK-001", report.Lines[0].Code)
	assert.True(t, report.Lines[0].TotalValue.Equal(decimal.RequireFromString("1250")))
	// Unpriced items contribute quantity but no value.
	assert.True(t, report.Lines[1].TotalValue.IsZero())
	assert.True(t, report.GrandTotal.Equal(decimal.RequireFromString("1250")))
}

func TestDashboardSummary(t *testing.T) {
	gdb := setupReportTestDB(t)
	seedReportFixtures(t, gdb)
	svc := newReportService(t, gdb)

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.ItemCount)
	assert.Equal(t, int64(2), summary.ActiveItemCount)
	assert.Equal(t, int64(1), summary.LocationCount)
	assert.Equal(t, int64(1), summary.OutOfStockCount)
	assert.Equal(t, int64(3), summary.TransactionCount)

	require.Len(t, summary.RecentTransactions, 3)
	// Newest ledger rows first.
	assert.Equal(t, "TXN-SAL-20260817-AAAAAAA4", summary.RecentTransactions[0].Reference)
	assert.Equal(t, "BRK-001", summary.RecentTransactions[0].ItemCode)
}
