package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLocation is a named warehouse or field site items are stocked at.
type StockLocation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_stock_locations_name"`
	Address   *string   `gorm:"column:address"`
	City      *string   `gorm:"column:city"`
	Notes     *string   `gorm:"column:notes"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
