package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

// StockReportFilters narrows the stock report.
type StockReportFilters struct {
	Category   *enums.ItemCategory
	LocationID *uuid.UUID
	Status     *enums.StockStatus
}

// StockLocationLine is one location's share of an item's holdings.
type StockLocationLine struct {
	LocationID     uuid.UUID `json:"location_id"`
	LocationName   string    `json:"location_name"`
	CurrentStock   int       `json:"current_stock"`
	ReservedStock  int       `json:"reserved_stock"`
	AvailableStock int       `json:"available_stock"`
	MinimumLevel   int       `json:"minimum_level"`
}

// StockLine is one item's row in the stock report.
type StockLine struct {
	ItemID         uuid.UUID           `json:"item_id"`
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	Category       enums.ItemCategory  `json:"category"`
	Unit           enums.ItemUnit      `json:"unit"`
	StockStatus    enums.StockStatus   `json:"stock_status"`
	TotalStock     int                 `json:"total_stock"`
	TotalReserved  int                 `json:"total_reserved"`
	TotalAvailable int                 `json:"total_available"`
	Locations      []StockLocationLine `json:"locations"`
}

// StockReport is the full holdings summary.
type StockReport struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	TotalStock     int            `json:"total_stock"`
	TotalReserved  int            `json:"total_reserved"`
	TotalAvailable int            `json:"total_available"`
	StatusCounts   map[string]int `json:"status_counts"`
	Lines          []StockLine    `json:"lines"`
}

// MovementWindow bounds a movement report.
type MovementWindow struct {
	From time.Time
	To   time.Time
}

// MovementGroup aggregates one transaction type over the window.
type MovementGroup struct {
	Type          enums.TransactionType `json:"type"`
	Count         int                   `json:"count"`
	TotalQuantity int                   `json:"total_quantity"`
}

// MovementReport is the grouped ledger activity over a window.
type MovementReport struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TransactionCount int             `json:"transaction_count"`
	QuantityIn       int             `json:"quantity_in"`
	QuantityOut      int             `json:"quantity_out"`
	ByType           []MovementGroup `json:"by_type"`
}

// ValuationLine prices one item's holdings.
type ValuationLine struct {
	ItemID     uuid.UUID        `json:"item_id"`
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	TotalStock int              `json:"total_stock"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalValue decimal.Decimal  `json:"total_value"`
}

// ValuationReport is the priced holdings summary.
type ValuationReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Lines       []ValuationLine `json:"lines"`
}

// RecentTransaction is a compact ledger row for the dashboard.
type RecentTransaction struct {
	ID            uuid.UUID             `json:"id"`
	Reference     string                `json:"reference"`
	ItemCode      string                `json:"item_code"`
	ItemName      string                `json:"item_name"`
	Type          enums.TransactionType `json:"type"`
	Quantity      int                   `json:"quantity"`
	PerformedBy   string                `json:"performed_by"`
	TransactionAt time.Time             `json:"transaction_at"`
}

// DashboardSummary is the headline view of the inventory subsystem.
type DashboardSummary struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	ItemCount          int64               `json:"item_count"`
	ActiveItemCount    int64               `json:"active_item_count"`
	LocationCount      int64               `json:"location_count"`
	SupplierCount      int64               `json:"supplier_count"`
	LowStockCount      int64               `json:"low_stock_count"`
	OutOfStockCount    int64               `json:"out_of_stock_count"`
	TransactionCount   int64               `json:"transaction_count"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}
