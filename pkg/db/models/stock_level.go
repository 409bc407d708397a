package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel tracks one item's quantities at one location. The composite
// unique index rejects duplicate levels for the same item+location pair.
type StockLevel struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID         uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_stock_levels_item_location"`
	LocationID     uuid.UUID `gorm:"column:location_id;type:uuid;not null;uniqueIndex:idx_stock_levels_item_location"`
	CurrentStock   int       `gorm:"column:current_stock;not null;default:0"`
	ReservedStock  int       `gorm:"column:reserved_stock;not null;default:0"`
	AvailableStock int       `gorm:"column:available_stock;not null;default:0"`
	MinimumLevel   int       `gorm:"column:minimum_level;not null;default:0"`
	MaximumLevel   *int      `gorm:"column:maximum_level"`
	ReorderPoint   int       `gorm:"column:reorder_point;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
