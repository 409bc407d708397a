package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brightvolt/backoffice-backend/api/responses"
	"github.com/brightvolt/backoffice-backend/api/validators"
	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
	"github.com/brightvolt/backoffice-backend/pkg/types"
)

// CreateItem handles item registration.
func CreateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// GetItem returns one item with its stock levels.
func GetItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// UpdateItem handles metadata and threshold updates.
func UpdateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteItem removes an item, falling back to deactivation when ledger
// history references it.
func DeleteItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := svc.DeleteItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result := "deactivated"
		if deleted {
			result = "deleted"
		}
		responses.WriteSuccess(w, map[string]string{"result": result})
	}
}

// ListItems returns a filtered, cursor-paginated item listing.
func ListItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, params, err := parseItemFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListItems(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parseItemFilters(r *http.Request) (catalog.ListFilters, pagination.Params, error) {
	var filters catalog.ListFilters

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := enums.ParseItemCategory(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filters.Category = &category
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseStockStatus(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filters.Status = &status
	}
	locationID, err := validators.QueryUUID(r, "location_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.LocationID = locationID
	filters.Search = r.URL.Query().Get("search")
	activeOnly, err := validators.QueryBool(r, "active_only")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.ActiveOnly = activeOnly

	limit, err := validators.QueryInt(r, "limit", 0)
	if err != nil {
		return filters, pagination.Params{}, err
	}
	params := pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}
	return filters, params, nil
}

type createStockLevelRequest struct {
	LocationID    string `json:"location_id" validate:"required,uuid"`
	CurrentStock  int    `json:"current_stock" validate:"min=0"`
	ReservedStock int    `json:"reserved_stock" validate:"min=0"`
	MinimumLevel  int    `json:"minimum_level" validate:"min=0"`
	MaximumLevel  *int   `json:"maximum_level,omitempty" validate:"omitempty,min=0"`
	ReorderPoint  int    `json:"reorder_point" validate:"min=0"`
}

type createItemRequest struct {
	Code           string                    `json:"code" validate:"required"`
	Name           string                    `json:"name" validate:"required"`
	Description    *string                   `json:"description,omitempty"`
	Category       string                    `json:"category" validate:"required"`
	Unit           string                    `json:"unit" validate:"required"`
	UnitPrice      *string                   `json:"unit_price,omitempty"`
	Specifications types.SpecMap             `json:"specifications,omitempty"`
	StockLevels    []createStockLevelRequest `json:"stock_levels,omitempty" validate:"dive"`
}

func (p createItemRequest) toInput() (catalog.CreateItemInput, error) {
	category, err := enums.ParseItemCategory(p.Category)
	if err != nil {
		return catalog.CreateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	unit, err := enums.ParseItemUnit(p.Unit)
	if err != nil {
		return catalog.CreateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	price, err := parsePrice(p.UnitPrice)
	if err != nil {
		return catalog.CreateItemInput{}, err
	}

	input := catalog.CreateItemInput{
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Category:       category,
		Unit:           unit,
		UnitPrice:      price,
		Specifications: p.Specifications,
	}
	for _, level := range p.StockLevels {
		locationID, err := validators.PathUUID(level.LocationID, "location_id")
		if err != nil {
			return catalog.CreateItemInput{}, err
		}
		input.StockLevels = append(input.StockLevels, catalog.StockLevelInput{
			LocationID:    locationID,
			CurrentStock:  level.CurrentStock,
			ReservedStock: level.ReservedStock,
			MinimumLevel:  level.MinimumLevel,
			MaximumLevel:  level.MaximumLevel,
			ReorderPoint:  level.ReorderPoint,
		})
	}
	return input, nil
}

type thresholdRequest struct {
	LocationID   string `json:"location_id" validate:"required,uuid"`
	MinimumLevel int    `json:"minimum_level" validate:"min=0"`
	MaximumLevel *int   `json:"maximum_level,omitempty" validate:"omitempty,min=0"`
	ReorderPoint int    `json:"reorder_point" validate:"min=0"`
}

type updateItemRequest struct {
	Name           *string            `json:"name,omitempty"`
	Description    *string            `json:"description,omitempty"`
	Category       *string            `json:"category,omitempty"`
	Unit           *string            `json:"unit,omitempty"`
	UnitPrice      *string            `json:"unit_price,omitempty"`
	Specifications *types.SpecMap     `json:"specifications,omitempty"`
	StockStatus    *string            `json:"stock_status,omitempty"`
	IsActive       *bool              `json:"is_active,omitempty"`
	Thresholds     []thresholdRequest `json:"thresholds,omitempty" validate:"dive"`
}

func (p updateItemRequest) toInput() (catalog.UpdateItemInput, error) {
	input := catalog.UpdateItemInput{
		Name:           p.Name,
		Description:    p.Description,
		Specifications: p.Specifications,
		IsActive:       p.IsActive,
	}
	if p.Category != nil {
		category, err := enums.ParseItemCategory(*p.Category)
		if err != nil {
			return catalog.UpdateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		input.Category = &category
	}
	if p.Unit != nil {
		unit, err := enums.ParseItemUnit(*p.Unit)
		if err != nil {
			return catalog.UpdateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		input.Unit = &unit
	}
	if p.StockStatus != nil {
		status, err := enums.ParseStockStatus(*p.StockStatus)
		if err != nil {
			return catalog.UpdateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		input.StockStatus = &status
	}
	price, err := parsePrice(p.UnitPrice)
	if err != nil {
		return catalog.UpdateItemInput{}, err
	}
	input.UnitPrice = price

	for _, threshold := range p.Thresholds {
		locationID, err := validators.PathUUID(threshold.LocationID, "location_id")
		if err != nil {
			return catalog.UpdateItemInput{}, err
		}
		input.Thresholds = append(input.Thresholds, catalog.ThresholdInput{
			LocationID:   locationID,
			MinimumLevel: threshold.MinimumLevel,
			MaximumLevel: threshold.MaximumLevel,
			ReorderPoint: threshold.ReorderPoint,
		})
	}
	return input, nil
}

func parsePrice(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	price, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be a decimal string")
	}
	return &price, nil
}
