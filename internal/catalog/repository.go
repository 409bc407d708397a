package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

// Repository persists catalog items and their stock levels.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateItem inserts the item together with its stock level rows.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an item with its stock levels.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("StockLevels").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCode loads an item by its business key.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("StockLevels").
		First(&item, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem persists metadata and threshold changes in one transaction.
// Quantity columns stay untouched here: the ledger owns them, and a movement
// committed after the caller's read must survive this write. Once thresholds
// land, the level rows are reloaded and the cached aggregates re-derived from
// whatever quantities are current.
func (r *Repository) SaveItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	var saved models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		metadata := map[string]any{
			"name":           item.Name,
			"description":    item.Description,
			"category":       item.Category,
			"unit":           item.Unit,
			"unit_price":     item.UnitPrice,
			"specifications": item.Specifications,
			"stock_status":   item.StockStatus,
			"is_active":      item.IsActive,
			"updated_at":     time.Now().UTC(),
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(metadata).Error; err != nil {
			return err
		}
		for i := range item.StockLevels {
			level := &item.StockLevels[i]
			err := tx.Model(&models.StockLevel{}).
				Where("item_id = ? AND location_id = ?", item.ID, level.LocationID).
				Updates(map[string]any{
					"minimum_level": level.MinimumLevel,
					"maximum_level": level.MaximumLevel,
					"reorder_point": level.ReorderPoint,
				}).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Preload("StockLevels").First(&saved, "id = ?", item.ID).Error; err != nil {
			return err
		}
		ApplyDerived(&saved)
		return tx.Model(&models.Item{}).Where("id = ?", saved.ID).
			Updates(map[string]any{
				"total_stock":     saved.TotalStock,
				"total_reserved":  saved.TotalReserved,
				"total_available": saved.TotalAvailable,
				"stock_status":    saved.StockStatus,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateItemDerived writes only the cached aggregate columns.
func (r *Repository) UpdateItemDerived(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"total_stock":     item.TotalStock,
			"total_reserved":  item.TotalReserved,
			"total_available": item.TotalAvailable,
			"stock_status":    item.StockStatus,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// ItemBatch pages through all items by id, levels preloaded. Pass uuid.Nil
// to start from the beginning.
func (r *Repository) ItemBatch(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Item, error) {
	query := r.db.WithContext(ctx).Preload("StockLevels")
	if afterID != uuid.Nil {
		query = query.Where("id > ?", afterID)
	}
	var items []models.Item
	if err := query.Order("id").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkInactive soft-deletes the item.
func (r *Repository) MarkInactive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// DeleteItem removes the item together with its stock levels.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.StockLevel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Item{}).Error
	})
}

// ListFilters narrows the item listing.
type ListFilters struct {
	Category   *enums.ItemCategory
	Status     *enums.StockStatus
	LocationID *uuid.UUID
	Search     string
	ActiveOnly bool
}

// ListResult is one page of items plus the cursor for the next page.
type ListResult struct {
	Items      []models.Item
	NextCursor string
}

// ListItems returns a cursor-paginated page of items.
func (r *Repository) ListItems(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := params.PageSize()
	fetchSize := params.FetchSize()

	cursor, err := params.After()
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Item{}).Preload("StockLevels")

	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.Status != nil {
		qb = qb.Where("stock_status = ?", *filters.Status)
	}
	if filters.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.LocationID != nil {
		qb = qb.Where("EXISTS (SELECT 1 FROM stock_levels sl WHERE sl.item_id = items.id AND sl.location_id = ?)", *filters.LocationID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Item
	err = qb.Order("created_at DESC").Order("id DESC").Limit(fetchSize).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: rows}
	if len(rows) > pageSize {
		result.Items = rows[:pageSize]
		last := result.Items[len(result.Items)-1]
		result.NextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return result, nil
}
