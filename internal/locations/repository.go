package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, location *models.StockLocation) (*models.StockLocation, error) {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// Get loads a location by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.StockLocation, error) {
	var location models.StockLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// Exists reports whether a location with the id is registered.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockLocation{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Save(ctx context.Context, location *models.StockLocation) (*models.StockLocation, error) {
	if err := r.db.WithContext(ctx).Save(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StockLocation{}, "id = ?", id).Error
}

// List returns all locations ordered by name.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.StockLocation, error) {
	query := r.db.WithContext(ctx).Model(&models.StockLocation{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.StockLocation
	err := query.Order("name").Find(&rows).Error
	return rows, err
}

// CountStockLevels reports how many stock level rows reference the location.
func (r *Repository) CountStockLevels(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Where("location_id = ?", id).
		Count(&count).Error
	return count, err
}
