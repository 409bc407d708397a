package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

// Repository runs the read-only aggregate queries behind the reports.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) stockLines(ctx context.Context, filters StockReportFilters) ([]StockLine, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Preload("StockLevels").
		Where("is_active = ?", true)
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Status != nil {
		query = query.Where("stock_status = ?", *filters.Status)
	}
	if filters.LocationID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM stock_levels sl WHERE sl.item_id = items.id AND sl.location_id = ?)",
			*filters.LocationID,
		)
	}

	var items []models.Item
	if err := query.Order("code").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	locationNames, err := r.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]StockLine, 0, len(items))
	for i := range items {
		item := items[i]
		line := StockLine{
			ItemID:         item.ID,
			Code:           item.Code,
			Name:           item.Name,
			Category:       item.Category,
			Unit:           item.Unit,
			StockStatus:    item.StockStatus,
			TotalStock:     item.TotalStock,
			TotalReserved:  item.TotalReserved,
			TotalAvailable: item.TotalAvailable,
			Locations:      make([]StockLocationLine, 0, len(item.StockLevels)),
		}
		for _, level := range item.StockLevels {
			line.Locations = append(line.Locations, StockLocationLine{
				LocationID:     level.LocationID,
				LocationName:   locationNames[level.LocationID],
				CurrentStock:   level.CurrentStock,
				ReservedStock:  level.ReservedStock,
				AvailableStock: level.AvailableStock,
				MinimumLevel:   level.MinimumLevel,
			})
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *Repository) locationNames(ctx context.Context) (map[uuid.UUID]string, error) {
	var locations []models.StockLocation
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	names := make(map[uuid.UUID]string, len(locations))
	for _, loc := range locations {
		names[loc.ID] = loc.Name
	}
	return names, nil
}

func (r *Repository) movementGroups(ctx context.Context, window MovementWindow) ([]MovementGroup, error) {
	var groups []MovementGroup
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select("type", "COUNT(*) AS count", "SUM(quantity) AS total_quantity").
		Where("transaction_at >= ? AND transaction_at <= ?", window.From, window.To).
		Group("type").
		Order("type").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("group transactions: %w", err)
	}
	return groups, nil
}

func (r *Repository) valuationLines(ctx context.Context) ([]ValuationLine, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Select("id", "code", "name", "unit_price", "total_stock").
		Where("is_active = ?", true).
		Order("code").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	lines := make([]ValuationLine, 0, len(items))
	for i := range items {
		item := items[i]
		line := ValuationLine{
			ItemID:     item.ID,
			Code:       item.Code,
			Name:       item.Name,
			TotalStock: item.TotalStock,
			UnitPrice:  item.UnitPrice,
			TotalValue: decimal.Zero,
		}
		if item.UnitPrice != nil {
			line.TotalValue = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.TotalStock)))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *Repository) dashboardCounts(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	counts := []struct {
		dest  *int64
		model any
		scope func(*gorm.DB) *gorm.DB
	}{
		{&summary.ItemCount, &models.Item{}, nil},
		{&summary.ActiveItemCount, &models.Item{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("is_active = ?", true)
		}},
		{&summary.LocationCount, &models.StockLocation{}, nil},
		{&summary.SupplierCount, &models.Supplier{}, nil},
		{&summary.LowStockCount, &models.Item{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("stock_status = ?", enums.StockStatusLowStock)
		}},
		{&summary.OutOfStockCount, &models.Item{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("stock_status = ?", enums.StockStatusOutOfStock)
		}},
		{&summary.TransactionCount, &models.StockTransaction{}, nil},
	}
	for _, c := range counts {
		query := r.db.WithContext(ctx).Model(c.model)
		if c.scope != nil {
			query = c.scope(query)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}
	return summary, nil
}

func (r *Repository) recentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error) {
	var rows []RecentTransaction
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select(
			"stock_transactions.id",
			"stock_transactions.reference",
			"items.code AS item_code",
			"items.name AS item_name",
			"stock_transactions.type",
			"stock_transactions.quantity",
			"stock_transactions.performed_by",
			"stock_transactions.transaction_at",
		).
		Joins("LEFT JOIN items ON items.id = stock_transactions.item_id").
		Order("stock_transactions.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recent transactions: %w", err)
	}
	return rows, nil
}
