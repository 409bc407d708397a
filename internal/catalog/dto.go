package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	"github.com/brightvolt/backoffice-backend/pkg/types"
)

// ItemDTO is the read model returned by the catalog service.
type ItemDTO struct {
	ID             uuid.UUID          `json:"id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	Category       enums.ItemCategory `json:"category"`
	Unit           enums.ItemUnit     `json:"unit"`
	UnitPrice      *decimal.Decimal   `json:"unit_price,omitempty"`
	Specifications types.SpecMap      `json:"specifications,omitempty"`
	StockStatus    enums.StockStatus  `json:"stock_status"`
	TotalStock     int                `json:"total_stock"`
	TotalReserved  int                `json:"total_reserved"`
	TotalAvailable int                `json:"total_available"`
	IsActive       bool               `json:"is_active"`
	StockLevels    []StockLevelDTO    `json:"stock_levels"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// StockLevelDTO is the per-location quantity view embedded in ItemDTO.
type StockLevelDTO struct {
	LocationID     uuid.UUID `json:"location_id"`
	CurrentStock   int       `json:"current_stock"`
	ReservedStock  int       `json:"reserved_stock"`
	AvailableStock int       `json:"available_stock"`
	MinimumLevel   int       `json:"minimum_level"`
	MaximumLevel   *int      `json:"maximum_level,omitempty"`
	ReorderPoint   int       `json:"reorder_point"`
}

// ItemListDTO is one page of items.
type ItemListDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func toItemDTO(item *models.Item) *ItemDTO {
	dto := &ItemDTO{
		ID:             item.ID,
		Code:           item.Code,
		Name:           item.Name,
		Description:    item.Description,
		Category:       item.Category,
		Unit:           item.Unit,
		UnitPrice:      item.UnitPrice,
		Specifications: item.Specifications,
		StockStatus:    item.StockStatus,
		TotalStock:     item.TotalStock,
		TotalReserved:  item.TotalReserved,
		TotalAvailable: item.TotalAvailable,
		IsActive:       item.IsActive,
		StockLevels:    make([]StockLevelDTO, 0, len(item.StockLevels)),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
	for _, level := range item.StockLevels {
		dto.StockLevels = append(dto.StockLevels, StockLevelDTO{
			LocationID:     level.LocationID,
			CurrentStock:   level.CurrentStock,
			ReservedStock:  level.ReservedStock,
			AvailableStock: level.AvailableStock,
			MinimumLevel:   level.MinimumLevel,
			MaximumLevel:   level.MaximumLevel,
			ReorderPoint:   level.ReorderPoint,
		})
	}
	return dto
}
