package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

// Repository owns transaction persistence and the conditional stock-level
// updates the ledger pipeline relies on. Every quantity guard is evaluated by
// the database inside the UPDATE itself, so two concurrent movements on the
// same level cannot both pass a check the combined result would violate.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// InsertTransaction appends one ledger row.
func (r *Repository) InsertTransaction(ctx context.Context, txn *models.StockTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// FindByID loads a single transaction.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error) {
	var txn models.StockTransaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindByReference loads a transaction by its human-readable reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.StockTransaction, error) {
	var txn models.StockTransaction
	if err := r.db.WithContext(ctx).First(&txn, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// CountByItem reports how many ledger rows reference the item.
func (r *Repository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

// CountBySupplier reports how many ledger rows reference the supplier.
func (r *Repository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// CountByLocation reports how many ledger rows reference the location as
// either endpoint.
func (r *Repository) CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("from_location_id = ? OR to_location_id = ?", locationID, locationID).
		Count(&count).Error
	return count, err
}

// ListFilters narrows a transaction listing.
type ListFilters struct {
	ItemID     *uuid.UUID
	LocationID *uuid.UUID
	Type       *enums.TransactionType
	SupplierID *uuid.UUID
	ProjectRef string
	From       *time.Time
	To         *time.Time
}

// ListResult is one page of transactions plus the cursor for the next page.
type ListResult struct {
	Transactions []models.StockTransaction
	NextCursor   string
}

// List returns a cursor-paginated page of ledger rows, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := params.PageSize()
	fetchSize := params.FetchSize()

	cursor, err := params.After()
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}

	query := r.db.WithContext(ctx).Model(&models.StockTransaction{})
	if filters.ItemID != nil {
		query = query.Where("item_id = ?", *filters.ItemID)
	}
	if filters.LocationID != nil {
		query = query.Where("from_location_id = ? OR to_location_id = ?", *filters.LocationID, *filters.LocationID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.ProjectRef != "" {
		query = query.Where("project_ref = ?", filters.ProjectRef)
	}
	if filters.From != nil {
		query = query.Where("transaction_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("transaction_at <= ?", *filters.To)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.StockTransaction
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(fetchSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := &ListResult{Transactions: rows}
	if len(rows) > pageSize {
		result.Transactions = rows[:pageSize]
		last := result.Transactions[pageSize-1]
		result.NextCursor = pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}.Encode()
	}
	return result, nil
}

// LevelsForItem loads the item's stock levels.
func (r *Repository) LevelsForItem(ctx context.Context, itemID uuid.UUID) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("location_id").
		Find(&levels).Error
	return levels, err
}

// FindLevel loads one stock level row, if present.
func (r *Repository) FindLevel(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error) {
	var level models.StockLevel
	err := r.db.WithContext(ctx).
		First(&level, "item_id = ? AND location_id = ?", itemID, locationID).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// AddCurrentStock increments the level's current stock. Returns false when no
// level exists for the item+location pair.
func (r *Repository) AddCurrentStock(ctx context.Context, itemID, locationID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		Update("current_stock", gorm.Expr("current_stock + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveCurrentStock decrements current stock only when the level holds at
// least the requested quantity. Returns false when the guard rejected the
// update or no level row exists.
func (r *Repository) RemoveCurrentStock(ctx context.Context, itemID, locationID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ? AND location_id = ? AND current_stock >= ?", itemID, locationID, quantity).
		Update("current_stock", gorm.Expr("current_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReserveStock raises reserved stock only while enough unreserved stock
// remains to cover the request.
func (r *Repository) ReserveStock(ctx context.Context, itemID, locationID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ? AND location_id = ? AND current_stock - reserved_stock >= ?", itemID, locationID, quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseReserved lowers reserved stock only while it holds at least the
// requested quantity.
func (r *Repository) ReleaseReserved(ctx context.Context, itemID, locationID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ? AND location_id = ? AND reserved_stock >= ?", itemID, locationID, quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ZeroReserved clears reserved stock at the level and reports how many units
// were released.
func (r *Repository) ZeroReserved(ctx context.Context, itemID, locationID uuid.UUID) (int, error) {
	level, err := r.FindLevel(ctx, itemID, locationID)
	if err != nil {
		return 0, err
	}
	released := level.ReservedStock
	if released == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ? AND location_id = ? AND reserved_stock = ?", itemID, locationID, released).
		Update("reserved_stock", 0)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("reserved stock changed concurrently for item %s at location %s", itemID, locationID)
	}
	return released, nil
}

// RefreshAvailability recomputes available_stock for every level of the item
// from the stored current/reserved values, clamped at zero.
func (r *Repository) RefreshAvailability(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("item_id = ?", itemID).
		Update("available_stock", gorm.Expr(
			"CASE WHEN current_stock - reserved_stock > 0 THEN current_stock - reserved_stock ELSE 0 END",
		)).Error
}
