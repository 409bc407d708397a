package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

// Service is the transaction ledger: every stock mutation flows through it,
// and every successful mutation leaves exactly one audit row behind, written
// in the same storage transaction as the quantity change.
type Service interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionDTO, error)
	AdjustReserved(ctx context.Context, input ReserveInput) (*TransactionDTO, error)
	AdjustStock(ctx context.Context, input AdjustInput) (*TransactionDTO, error)
	BulkAdjust(ctx context.Context, performedBy string, entries []BulkEntry) []BulkResult
	GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
	ListTransactions(ctx context.Context, params pagination.Params, filters ListFilters) (*TransactionListDTO, error)
}

type locationDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*models.StockLocation, error)
}

type supplierDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type service struct {
	client    *db.Client
	repo      *Repository
	items     *catalog.Repository
	locations locationDirectory
	suppliers supplierDirectory
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the ledger service.
func NewService(
	client *db.Client,
	repo *Repository,
	items *catalog.Repository,
	locations locationDirectory,
	suppliers supplierDirectory,
	logg *logger.Logger,
) (Service, error) {
	if client == nil || repo == nil || items == nil {
		return nil, fmt.Errorf("db client, ledger repository, and item repository required")
	}
	if locations == nil || suppliers == nil {
		return nil, fmt.Errorf("location and supplier directories required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:    client,
		repo:      repo,
		items:     items,
		locations: locations,
		suppliers: suppliers,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// CreateTransaction validates and executes one stock movement atomically: the
// guarded quantity update, the derived-field refresh on the item, and the
// audit row all commit or roll back together.
func (s *service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionDTO, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}

	item, err := s.loadItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	fromLoc, err := s.resolveLocation(ctx, input.FromLocationID)
	if err != nil {
		return nil, err
	}
	toLoc, err := s.resolveLocation(ctx, input.ToLocationID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.resolveSupplier(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}

	transactionAt := s.now().UTC()
	if input.TransactionAt != nil {
		transactionAt = input.TransactionAt.UTC()
	}

	txn := &models.StockTransaction{
		Reference:      NewReference(input.Type, transactionAt),
		ItemID:         item.ID,
		Type:           input.Type,
		Quantity:       input.Quantity,
		UnitPrice:      input.UnitPrice,
		TotalValue:     totalValue(input.UnitPrice, input.Quantity),
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		ProjectRef:     input.ProjectRef,
		SupplierID:     input.SupplierID,
		PerformedBy:    input.PerformedBy,
		TransactionAt:  transactionAt,
		Notes:          input.Notes,
		DocumentRef:    input.DocumentRef,
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		before, err := currentTotal(ctx, repo, item.ID)
		if err != nil {
			return err
		}

		if err := s.applyMovement(ctx, repo, item.ID, input); err != nil {
			return err
		}

		if err := repo.RefreshAvailability(ctx, item.ID); err != nil {
			return fmt.Errorf("refresh availability: %w", err)
		}
		after, err := s.refreshItemDerived(ctx, tx, repo, item)
		if err != nil {
			return err
		}

		txn.StockBefore = before
		txn.StockAfter = after
		if err := repo.InsertTransaction(ctx, txn); err != nil {
			if db.IsUniqueViolation(err, "idx_stock_transactions_reference") {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("transaction reference %s already exists", txn.Reference))
			}
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"item_id": item.ID.String(),
				"type":    input.Type.String(),
			})
			s.logg.Warn(logCtx, fmt.Sprintf("stock movement rejected: %s", typed.Message()))
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute stock movement")
	}

	return s.buildDTO(txn, item, fromLoc, toLoc, supplier), nil
}

// applyMovement dispatches the quantity change for the transaction type. The
// sufficiency guards live inside the repository's conditional updates; a
// rejected update is inspected once more here only to pick the right error.
func (s *service) applyMovement(ctx context.Context, repo *Repository, itemID uuid.UUID, input CreateTransactionInput) error {
	switch {
	case input.Type.Inbound():
		ok, err := repo.AddCurrentStock(ctx, itemID, *input.ToLocationID, input.Quantity)
		if err != nil {
			return fmt.Errorf("add stock: %w", err)
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("item is not stocked at location %s", *input.ToLocationID))
		}
		return nil

	case input.Type.Outbound():
		return s.withdraw(ctx, repo, itemID, *input.FromLocationID, input.Quantity)

	case input.Type == enums.TransactionTypeTransfer:
		if err := s.withdraw(ctx, repo, itemID, *input.FromLocationID, input.Quantity); err != nil {
			return err
		}
		ok, err := repo.AddCurrentStock(ctx, itemID, *input.ToLocationID, input.Quantity)
		if err != nil {
			return fmt.Errorf("add stock: %w", err)
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("item is not stocked at location %s", *input.ToLocationID))
		}
		return nil

	case input.Type == enums.TransactionTypeAllocation:
		ok, err := repo.ReserveStock(ctx, itemID, *input.FromLocationID, input.Quantity)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		if !ok {
			return s.rejectionError(ctx, repo, itemID, *input.FromLocationID, "insufficient available stock")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported transaction type %q", input.Type))
}

func (s *service) withdraw(ctx context.Context, repo *Repository, itemID, locationID uuid.UUID, quantity int) error {
	ok, err := repo.RemoveCurrentStock(ctx, itemID, locationID, quantity)
	if err != nil {
		return fmt.Errorf("remove stock: %w", err)
	}
	if !ok {
		return s.rejectionError(ctx, repo, itemID, locationID, "insufficient stock")
	}
	return nil
}

// rejectionError distinguishes a missing stock level from a failed quantity
// guard after a conditional update matched no rows.
func (s *service) rejectionError(ctx context.Context, repo *Repository, itemID, locationID uuid.UUID, insufficientMsg string) error {
	if _, err := repo.FindLevel(ctx, itemID, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("item is not stocked at location %s", locationID))
		}
		return fmt.Errorf("inspect stock level: %w", err)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, insufficientMsg)
}

// refreshItemDerived reloads the item's levels inside the transaction,
// recomputes aggregates and status, and persists the derived columns. It
// returns the post-mutation total stock.
func (s *service) refreshItemDerived(ctx context.Context, tx *gorm.DB, repo *Repository, item *models.Item) (int, error) {
	levels, err := repo.LevelsForItem(ctx, item.ID)
	if err != nil {
		return 0, fmt.Errorf("reload stock levels: %w", err)
	}
	item.StockLevels = levels
	catalog.ApplyDerived(item)
	if err := s.items.WithTx(tx).UpdateItemDerived(ctx, item); err != nil {
		return 0, fmt.Errorf("update item aggregates: %w", err)
	}
	total, _, _ := catalog.Totals(levels)
	return total, nil
}

func (s *service) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("transaction %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	dtos, err := s.hydrate(ctx, []models.StockTransaction{*txn})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *service) ListTransactions(ctx context.Context, params pagination.Params, filters ListFilters) (*TransactionListDTO, error) {
	page, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	dtos, err := s.hydrate(ctx, page.Transactions)
	if err != nil {
		return nil, err
	}
	return &TransactionListDTO{Transactions: dtos, NextCursor: page.NextCursor}, nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %s not found", itemID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) resolveLocation(ctx context.Context, id *uuid.UUID) (*LocationSummary, error) {
	if id == nil {
		return nil, nil
	}
	loc, err := s.locations.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("location %s does not exist", *id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return &LocationSummary{ID: loc.ID, Name: loc.Name}, nil
}

func (s *service) resolveSupplier(ctx context.Context, id *uuid.UUID) (*SupplierSummary, error) {
	if id == nil {
		return nil, nil
	}
	supplier, err := s.suppliers.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("supplier %s does not exist", *id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return &SupplierSummary{ID: supplier.ID, Name: supplier.Name}, nil
}

func (s *service) buildDTO(txn *models.StockTransaction, item *models.Item, from, to *LocationSummary, supplier *SupplierSummary) *TransactionDTO {
	return &TransactionDTO{
		ID:            txn.ID,
		Reference:     txn.Reference,
		Item:          ItemSummary{ID: item.ID, Code: item.Code, Name: item.Name},
		Type:          txn.Type,
		Quantity:      txn.Quantity,
		UnitPrice:     txn.UnitPrice,
		TotalValue:    txn.TotalValue,
		FromLocation:  from,
		ToLocation:    to,
		ProjectRef:    txn.ProjectRef,
		Supplier:      supplier,
		PerformedBy:   txn.PerformedBy,
		TransactionAt: txn.TransactionAt,
		StockBefore:   txn.StockBefore,
		StockAfter:    txn.StockAfter,
		Notes:         txn.Notes,
		DocumentRef:   txn.DocumentRef,
		CreatedAt:     txn.CreatedAt,
	}
}

func currentTotal(ctx context.Context, repo *Repository, itemID uuid.UUID) (int, error) {
	levels, err := repo.LevelsForItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("load stock levels: %w", err)
	}
	total, _, _ := catalog.Totals(levels)
	return total, nil
}

func totalValue(unitPrice *decimal.Decimal, quantity int) *decimal.Decimal {
	if unitPrice == nil {
		return nil
	}
	value := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return &value
}

func validateMovement(input CreateTransactionInput) error {
	if input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported transaction type %q", input.Type))
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.PerformedBy == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "performed_by is required")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}

	switch {
	case input.Type.Inbound():
		if input.ToLocationID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("to_location_id is required for %s", input.Type))
		}
	case input.Type.Outbound(), input.Type == enums.TransactionTypeAllocation:
		if input.FromLocationID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("from_location_id is required for %s", input.Type))
		}
	case input.Type == enums.TransactionTypeTransfer:
		if input.FromLocationID == nil || input.ToLocationID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "transfers require both from_location_id and to_location_id")
		}
		if *input.FromLocationID == *input.ToLocationID {
			return pkgerrors.New(pkgerrors.CodeValidation, "transfer source and destination must differ")
		}
	}
	return nil
}
