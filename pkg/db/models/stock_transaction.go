package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

// StockTransaction is the immutable audit record of one stock-affecting event.
// Rows are inserted in the same storage transaction as the stock mutation they
// describe and are never updated afterwards.
type StockTransaction struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference      string                `gorm:"column:reference;not null;uniqueIndex:idx_stock_transactions_reference"`
	ItemID         uuid.UUID             `gorm:"column:item_id;type:uuid;not null;index"`
	Type           enums.TransactionType `gorm:"column:type;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	UnitPrice      *decimal.Decimal      `gorm:"column:unit_price;type:numeric(12,2)"`
	TotalValue     *decimal.Decimal      `gorm:"column:total_value;type:numeric(14,2)"`
	FromLocationID *uuid.UUID            `gorm:"column:from_location_id;type:uuid;index"`
	ToLocationID   *uuid.UUID            `gorm:"column:to_location_id;type:uuid;index"`
	ProjectRef     *string               `gorm:"column:project_ref"`
	SupplierID     *uuid.UUID            `gorm:"column:supplier_id;type:uuid;index"`
	PerformedBy    string                `gorm:"column:performed_by;not null"`
	TransactionAt  time.Time             `gorm:"column:transaction_at;not null"`
	StockBefore    int                   `gorm:"column:stock_before;not null"`
	StockAfter     int                   `gorm:"column:stock_after;not null"`
	Notes          *string               `gorm:"column:notes"`
	DocumentRef    *string               `gorm:"column:document_ref"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}
