package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
	"github.com/brightvolt/backoffice-backend/pkg/types"
)

// Item is a trackable good or service in the inventory catalog. Quantities are
// never written directly on this row: they move through the ledger, which also
// refreshes the cached totals and status.
type Item struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex:idx_items_code"`
	Name           string             `gorm:"column:name;not null"`
	Description    *string            `gorm:"column:description"`
	Category       enums.ItemCategory `gorm:"column:category;not null"`
	Unit           enums.ItemUnit     `gorm:"column:unit;not null"`
	UnitPrice      *decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2)"`
	Specifications types.SpecMap      `gorm:"column:specifications;type:jsonb"`
	StockStatus    enums.StockStatus  `gorm:"column:stock_status;not null;default:'IN_STOCK'"`
	TotalStock     int                `gorm:"column:total_stock;not null;default:0"`
	TotalReserved  int                `gorm:"column:total_reserved;not null;default:0"`
	TotalAvailable int                `gorm:"column:total_available;not null;default:0"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	StockLevels    []StockLevel       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
