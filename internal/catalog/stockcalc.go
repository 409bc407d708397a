package catalog

import (
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

// The functions below are the single place derived stock fields are computed.
// They never fail: negative or missing inputs clamp to zero.

// RecomputeAvailability sets available = max(0, current - reserved) on every
// level in place and returns the slice for chaining.
func RecomputeAvailability(levels []models.StockLevel) []models.StockLevel {
	for i := range levels {
		levels[i].AvailableStock = availableFor(levels[i].CurrentStock, levels[i].ReservedStock)
	}
	return levels
}

func availableFor(current, reserved int) int {
	if reserved < 0 {
		reserved = 0
	}
	available := current - reserved
	if available < 0 {
		return 0
	}
	return available
}

// DeriveStockStatus classifies an item from its stock levels: zero total is
// OUT_OF_STOCK, a total at or below the smallest per-location minimum is
// LOW_STOCK, anything else is IN_STOCK. The total is compared against the
// minimum of the per-location minimums, not their sum.
func DeriveStockStatus(levels []models.StockLevel) enums.StockStatus {
	total := 0
	for _, level := range levels {
		total += level.CurrentStock
	}
	if total == 0 {
		return enums.StockStatusOutOfStock
	}
	if minLevel, ok := smallestMinimum(levels); ok && total <= minLevel {
		return enums.StockStatusLowStock
	}
	return enums.StockStatusInStock
}

func smallestMinimum(levels []models.StockLevel) (int, bool) {
	found := false
	smallest := 0
	for _, level := range levels {
		if !found || level.MinimumLevel < smallest {
			smallest = level.MinimumLevel
			found = true
		}
	}
	return smallest, found
}

// Totals sums current, reserved, and available stock across levels.
func Totals(levels []models.StockLevel) (stock, reserved, available int) {
	for _, level := range levels {
		stock += level.CurrentStock
		if level.ReservedStock > 0 {
			reserved += level.ReservedStock
		}
		available += availableFor(level.CurrentStock, level.ReservedStock)
	}
	return stock, reserved, available
}

// ApplyDerived runs the full invariant pass on an item: availability per
// level, cached totals, and stock status. Manual statuses (ON_ORDER,
// DISCONTINUED, QUARANTINED) are preserved.
func ApplyDerived(item *models.Item) {
	RecomputeAvailability(item.StockLevels)
	item.TotalStock, item.TotalReserved, item.TotalAvailable = Totals(item.StockLevels)
	if !item.StockStatus.IsManual() {
		item.StockStatus = DeriveStockStatus(item.StockLevels)
	}
}
