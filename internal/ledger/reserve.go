package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

// AdjustReserved mutates reservedStock directly for one item+location,
// bypassing the movement dispatch. A nonzero net change appends an audit row
// (ALLOCATION for increases, RETURN for releases) in the same storage
// transaction; UNRESERVE_ALL with nothing reserved is a no-op and returns a
// nil transaction.
func (s *service) AdjustReserved(ctx context.Context, input ReserveInput) (*TransactionDTO, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id is required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reserve action %q", input.Action))
	}
	if input.Action != enums.ReserveActionUnreserveAll && input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.PerformedBy == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "performed_by is required")
	}

	item, err := s.loadItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	locationID := input.LocationID
	fromLoc, err := s.resolveLocation(ctx, &locationID)
	if err != nil {
		return nil, err
	}

	var txn *models.StockTransaction
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		total, err := currentTotal(ctx, repo, item.ID)
		if err != nil {
			return err
		}

		var auditType enums.TransactionType
		effectiveQty := input.Quantity

		switch input.Action {
		case enums.ReserveActionIncrease:
			ok, err := repo.ReserveStock(ctx, item.ID, input.LocationID, input.Quantity)
			if err != nil {
				return fmt.Errorf("reserve stock: %w", err)
			}
			if !ok {
				return s.rejectionError(ctx, repo, item.ID, input.LocationID, "insufficient available stock")
			}
			auditType = enums.TransactionTypeAllocation

		case enums.ReserveActionDecrease:
			ok, err := repo.ReleaseReserved(ctx, item.ID, input.LocationID, input.Quantity)
			if err != nil {
				return fmt.Errorf("release reserved: %w", err)
			}
			if !ok {
				return s.rejectionError(ctx, repo, item.ID, input.LocationID, "cannot release more than reserved")
			}
			auditType = enums.TransactionTypeReturn

		case enums.ReserveActionUnreserveAll:
			released, err := repo.ZeroReserved(ctx, item.ID, input.LocationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("item is not stocked at location %s", input.LocationID))
				}
				return fmt.Errorf("unreserve all: %w", err)
			}
			if released == 0 {
				return nil
			}
			effectiveQty = released
			auditType = enums.TransactionTypeReturn
		}

		if err := repo.RefreshAvailability(ctx, item.ID); err != nil {
			return fmt.Errorf("refresh availability: %w", err)
		}
		if _, err := s.refreshItemDerived(ctx, tx, repo, item); err != nil {
			return err
		}

		at := s.now().UTC()
		txn = &models.StockTransaction{
			Reference:      NewReference(auditType, at),
			ItemID:         item.ID,
			Type:           auditType,
			Quantity:       effectiveQty,
			FromLocationID: &locationID,
			ProjectRef:     input.ProjectRef,
			PerformedBy:    input.PerformedBy,
			TransactionAt:  at,
			StockBefore:    total,
			StockAfter:     total,
			Notes:          input.Notes,
		}
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
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust reserved stock")
	}
	if txn == nil {
		return nil, nil
	}
	return s.buildDTO(txn, item, fromLoc, nil, nil), nil
}
