package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
	"github.com/brightvolt/backoffice-backend/pkg/types"
)

// Service exposes item catalog management operations. Stock quantities are
// only mutated through the ledger; this service owns item identity, metadata,
// thresholds, and lifecycle.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) (deleted bool, err error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, params pagination.Params, filters ListFilters) (*ItemListDTO, error)
}

// CreateItemInput holds the validated payload to register an item.
type CreateItemInput struct {
	Code           string
	Name           string
	Description    *string
	Category       enums.ItemCategory
	Unit           enums.ItemUnit
	UnitPrice      *decimal.Decimal
	Specifications types.SpecMap
	StockLevels    []StockLevelInput
}

// StockLevelInput seeds one location's quantities and thresholds.
type StockLevelInput struct {
	LocationID    uuid.UUID
	CurrentStock  int
	ReservedStock int
	MinimumLevel  int
	MaximumLevel  *int
	ReorderPoint  int
}

// UpdateItemInput holds optional mutation values. Nil fields are untouched.
// Stock levels here update thresholds only; quantities are ledger territory.
type UpdateItemInput struct {
	Name           *string
	Description    *string
	Category       *enums.ItemCategory
	Unit           *enums.ItemUnit
	UnitPrice      *decimal.Decimal
	Specifications *types.SpecMap
	StockStatus    *enums.StockStatus
	IsActive       *bool
	Thresholds     []ThresholdInput
}

// ThresholdInput adjusts the replenishment thresholds at one location.
type ThresholdInput struct {
	LocationID   uuid.UUID
	MinimumLevel int
	MaximumLevel *int
	ReorderPoint int
}

type locationChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type transactionCounter interface {
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type service struct {
	repo      *Repository
	locations locationChecker
	ledger    transactionCounter
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, locations locationChecker, ledger transactionCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location checker required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("transaction counter required")
	}
	return &service{repo: repo, locations: locations, ledger: ledger}, nil
}

// CreateItem registers a new item with its initial stock levels.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item code is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", input.Category))
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid unit %q", input.Unit))
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}

	levels, err := s.buildStockLevels(ctx, input.StockLevels)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Code:           code,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Category:       input.Category,
		Unit:           input.Unit,
		UnitPrice:      input.UnitPrice,
		Specifications: input.Specifications,
		IsActive:       true,
		StockLevels:    levels,
	}
	ApplyDerived(item)

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_items_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item code %q already exists", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return toItemDTO(created), nil
}

func (s *service) buildStockLevels(ctx context.Context, inputs []StockLevelInput) ([]models.StockLevel, error) {
	seen := map[uuid.UUID]bool{}
	levels := make([]models.StockLevel, 0, len(inputs))
	for _, in := range inputs {
		if in.LocationID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock level location is required")
		}
		if seen[in.LocationID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate stock level for location %s", in.LocationID))
		}
		seen[in.LocationID] = true

		if in.CurrentStock < 0 || in.ReservedStock < 0 || in.MinimumLevel < 0 || in.ReorderPoint < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantities cannot be negative")
		}
		if in.ReservedStock > in.CurrentStock {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reserved_stock cannot exceed current_stock")
		}
		if in.MaximumLevel != nil && *in.MaximumLevel < in.MinimumLevel {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "maximum_level cannot be below minimum_level")
		}

		exists, err := s.locations.Exists(ctx, in.LocationID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check location")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("location %s does not exist", in.LocationID))
		}

		levels = append(levels, models.StockLevel{
			LocationID:    in.LocationID,
			CurrentStock:  in.CurrentStock,
			ReservedStock: in.ReservedStock,
			MinimumLevel:  in.MinimumLevel,
			MaximumLevel:  in.MaximumLevel,
			ReorderPoint:  in.ReorderPoint,
		})
	}
	return levels, nil
}

// UpdateItem mutates metadata and thresholds, then re-runs the invariant pass.
func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", *input.Category))
		}
		item.Category = *input.Category
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid unit %q", *input.Unit))
		}
		item.Unit = *input.Unit
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
		}
		item.UnitPrice = input.UnitPrice
	}
	if input.Specifications != nil {
		item.Specifications = *input.Specifications
	}
	if input.StockStatus != nil {
		if !input.StockStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock status %q", *input.StockStatus))
		}
		if !input.StockStatus.IsManual() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				"only ON_ORDER, DISCONTINUED, or QUARANTINED may be set directly; other statuses are derived")
		}
		item.StockStatus = *input.StockStatus
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	for _, threshold := range input.Thresholds {
		if threshold.MinimumLevel < 0 || threshold.ReorderPoint < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "thresholds cannot be negative")
		}
		applied := false
		for i := range item.StockLevels {
			if item.StockLevels[i].LocationID != threshold.LocationID {
				continue
			}
			item.StockLevels[i].MinimumLevel = threshold.MinimumLevel
			item.StockLevels[i].MaximumLevel = threshold.MaximumLevel
			item.StockLevels[i].ReorderPoint = threshold.ReorderPoint
			applied = true
			break
		}
		if !applied {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("item is not stocked at location %s", threshold.LocationID))
		}
	}

	saved, err := s.repo.SaveItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return toItemDTO(saved), nil
}

// DeleteItem soft-deletes when transaction history exists, otherwise removes
// the item outright. The returned flag reports whether a hard delete happened.
func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return false, err
	}

	count, err := s.ledger.CountByItem(ctx, item.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count item transactions")
	}
	if count > 0 {
		if err := s.repo.MarkInactive(ctx, item.ID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate item")
		}
		return false, nil
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return true, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toItemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params, filters ListFilters) (*ItemListDTO, error) {
	page, err := s.repo.ListItems(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	out := &ItemListDTO{
		Items:      make([]ItemDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for i := range page.Items {
		out.Items = append(out.Items, *toItemDTO(&page.Items[i]))
	}
	return out, nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %s not found", itemID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}
