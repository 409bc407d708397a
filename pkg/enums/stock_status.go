package enums

import "fmt"

// StockStatus classifies an item's overall stock position across locations.
type StockStatus string

const (
	StockStatusInStock      StockStatus = "IN_STOCK"
	StockStatusLowStock     StockStatus = "LOW_STOCK"
	StockStatusOutOfStock   StockStatus = "OUT_OF_STOCK"
	StockStatusOnOrder      StockStatus = "ON_ORDER"
	StockStatusDiscontinued StockStatus = "DISCONTINUED"
	StockStatusQuarantined  StockStatus = "QUARANTINED"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLowStock,
	StockStatusOutOfStock,
	StockStatusOnOrder,
	StockStatusDiscontinued,
	StockStatusQuarantined,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsManual reports whether the status is assigned by operators rather than
// derived from quantities. Manual statuses are never overwritten by the
// reconciliation sweep.
func (s StockStatus) IsManual() bool {
	return s == StockStatusOnOrder || s == StockStatusDiscontinued || s == StockStatusQuarantined
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
