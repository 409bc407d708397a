package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

// CreateTransactionInput describes one stock-affecting movement request.
type CreateTransactionInput struct {
	ItemID         uuid.UUID
	Type           enums.TransactionType
	Quantity       int
	UnitPrice      *decimal.Decimal
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	ProjectRef     *string
	SupplierID     *uuid.UUID
	PerformedBy    string
	TransactionAt  *time.Time
	Notes          *string
	DocumentRef    *string
}

// ReserveInput adjusts reserved stock for a single item+location.
type ReserveInput struct {
	ItemID      uuid.UUID
	LocationID  uuid.UUID
	Action      enums.ReserveAction
	Quantity    int
	ProjectRef  *string
	PerformedBy string
	Notes       *string
}

// AdjustInput is the signed single-item adjustment: positive quantities
// become ADJUSTMENT_IN, negative become ADJUSTMENT_OUT of the magnitude.
type AdjustInput struct {
	ItemID      uuid.UUID
	LocationID  uuid.UUID
	Quantity    int
	Reason      *string
	PerformedBy string
}

// BulkOp enumerates the batch adjustment operations.
type BulkOp string

const (
	BulkOpAdd      BulkOp = "add"
	BulkOpSubtract BulkOp = "subtract"
	BulkOpSet      BulkOp = "set"
)

// BulkEntry is one line of a bulk adjustment batch.
type BulkEntry struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Op         BulkOp
	Quantity   int
	Reason     *string
}

// BulkResult reports the outcome of one bulk entry. Entries are processed
// independently; earlier successes are not rolled back by later failures.
type BulkResult struct {
	ItemID      uuid.UUID       `json:"item_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Succeeded   bool            `json:"succeeded"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ItemSummary is the readable item reference on a transaction.
type ItemSummary struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// LocationSummary is the readable location reference on a transaction.
type LocationSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SupplierSummary is the readable supplier reference on a transaction.
type SupplierSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TransactionDTO is a ledger record joined with its readable references.
type TransactionDTO struct {
	ID            uuid.UUID             `json:"id"`
	Reference     string                `json:"reference"`
	Item          ItemSummary           `json:"item"`
	Type          enums.TransactionType `json:"type"`
	Quantity      int                   `json:"quantity"`
	UnitPrice     *decimal.Decimal      `json:"unit_price,omitempty"`
	TotalValue    *decimal.Decimal      `json:"total_value,omitempty"`
	FromLocation  *LocationSummary      `json:"from_location,omitempty"`
	ToLocation    *LocationSummary      `json:"to_location,omitempty"`
	ProjectRef    *string               `json:"project_ref,omitempty"`
	Supplier      *SupplierSummary      `json:"supplier,omitempty"`
	PerformedBy   string                `json:"performed_by"`
	TransactionAt time.Time             `json:"transaction_at"`
	StockBefore   int                   `json:"stock_before"`
	StockAfter    int                   `json:"stock_after"`
	Notes         *string               `json:"notes,omitempty"`
	DocumentRef   *string               `json:"document_ref,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// TransactionListDTO is one page of ledger records.
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}
