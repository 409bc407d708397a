package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

func level(current, reserved, minimum int) models.StockLevel {
	return models.StockLevel{
		CurrentStock:  current,
		ReservedStock: reserved,
		MinimumLevel:  minimum,
	}
}

func TestRecomputeAvailability(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		reserved int
		want     int
	}{
		{"plain difference", 100, 30, 70},
		{"zero reserved", 50, 0, 50},
		{"reserved exceeds current clamps to zero", 10, 25, 0},
		{"negative reserved treated as zero", 40, -5, 40},
		{"all zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := RecomputeAvailability([]models.StockLevel{level(tt.current, tt.reserved, 0)})
			assert.Equal(t, tt.want, levels[0].AvailableStock)
		})
	}
}

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name   string
		levels []models.StockLevel
		want   enums.StockStatus
	}{
		{
			name:   "no levels is out of stock",
			levels: nil,
			want:   enums.StockStatusOutOfStock,
		},
		{
			name:   "zero total is out of stock",
			levels: []models.StockLevel{level(0, 0, 20), level(0, 0, 5)},
			want:   enums.StockStatusOutOfStock,
		},
		{
			name:   "total at smallest minimum is low stock",
			levels: []models.StockLevel{level(3, 0, 20), level(2, 0, 5)},
			want:   enums.StockStatusLowStock,
		},
		{
			name:   "total above smallest minimum but below largest is in stock",
			levels: []models.StockLevel{level(8, 0, 20), level(2, 0, 5)},
			want:   enums.StockStatusInStock,
		},
		{
			name:   "healthy totals are in stock",
			levels: []models.StockLevel{level(100, 0, 20)},
			want:   enums.StockStatusInStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStockStatus(tt.levels))
		})
	}
}

func TestTotals(t *testing.T) {
	stock, reserved, available := Totals([]models.StockLevel{
		level(100, 30, 0),
		level(10, 25, 0),
		level(40, -5, 0),
	})

	assert.Equal(t, 150, stock)
	assert.Equal(t, 55, reserved)
	assert.Equal(t, 110, available)
}

func TestApplyDerived(t *testing.T) {
	t.Run("recomputes availability, totals, and status", func(t *testing.T) {
		item := &models.Item{
			StockStatus: enums.StockStatusInStock,
			StockLevels: []models.StockLevel{level(5, 2, 20)},
		}

		ApplyDerived(item)

		assert.Equal(t, 5, item.TotalStock)
		assert.Equal(t, 2, item.TotalReserved)
		assert.Equal(t, 3, item.TotalAvailable)
		assert.Equal(t, 3, item.StockLevels[0].AvailableStock)
		assert.Equal(t, enums.StockStatusLowStock, item.StockStatus)
	})

	t.Run("manual statuses survive the pass", func(t *testing.T) {
		for _, status := range []enums.StockStatus{
			enums.StockStatusOnOrder,
			enums.StockStatusDiscontinued,
			enums.StockStatusQuarantined,
		} {
			item := &models.Item{
				StockStatus: status,
				StockLevels: []models.StockLevel{level(0, 0, 20)},
			}

			ApplyDerived(item)

			assert.Equal(t, status, item.StockStatus)
			assert.Equal(t, 0, item.TotalStock)
		}
	})

	t.Run("derived statuses are overwritten", func(t *testing.T) {
		item := &models.Item{
			StockStatus: enums.StockStatusLowStock,
			StockLevels: []models.StockLevel{level(500, 0, 20)},
		}

		ApplyDerived(item)

		assert.Equal(t, enums.StockStatusInStock, item.StockStatus)
	})
}
