package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

// AdjustStock translates a signed quantity into a single ADJUSTMENT_IN or
// ADJUSTMENT_OUT movement at the given location.
func (s *service) AdjustStock(ctx context.Context, input AdjustInput) (*TransactionDTO, error) {
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity cannot be zero")
	}

	movement := CreateTransactionInput{
		ItemID:      input.ItemID,
		Quantity:    input.Quantity,
		PerformedBy: input.PerformedBy,
		Notes:       input.Reason,
	}
	locationID := input.LocationID
	if input.Quantity > 0 {
		movement.Type = enums.TransactionTypeAdjustmentIn
		movement.ToLocationID = &locationID
	} else {
		movement.Type = enums.TransactionTypeAdjustmentOut
		movement.Quantity = -input.Quantity
		movement.FromLocationID = &locationID
	}
	return s.CreateTransaction(ctx, movement)
}

// BulkAdjust processes a batch of add/subtract/set operations. Entries run
// independently: a failure records an error for that entry and the batch
// continues, leaving earlier mutations committed.
func (s *service) BulkAdjust(ctx context.Context, performedBy string, entries []BulkEntry) []BulkResult {
	results := make([]BulkResult, 0, len(entries))
	for _, entry := range entries {
		result := BulkResult{ItemID: entry.ItemID, LocationID: entry.LocationID}
		txn, err := s.applyBulkEntry(ctx, performedBy, entry)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Succeeded = true
			result.Transaction = txn
		}
		results = append(results, result)
	}
	return results
}

func (s *service) applyBulkEntry(ctx context.Context, performedBy string, entry BulkEntry) (*TransactionDTO, error) {
	switch entry.Op {
	case BulkOpAdd:
		if entry.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "add quantity must be positive")
		}
		return s.AdjustStock(ctx, AdjustInput{
			ItemID:      entry.ItemID,
			LocationID:  entry.LocationID,
			Quantity:    entry.Quantity,
			Reason:      entry.Reason,
			PerformedBy: performedBy,
		})

	case BulkOpSubtract:
		if entry.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtract quantity must be positive")
		}
		return s.AdjustStock(ctx, AdjustInput{
			ItemID:      entry.ItemID,
			LocationID:  entry.LocationID,
			Quantity:    -entry.Quantity,
			Reason:      entry.Reason,
			PerformedBy: performedBy,
		})

	case BulkOpSet:
		if entry.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "set quantity cannot be negative")
		}
		level, err := s.repo.FindLevel(ctx, entry.ItemID, entry.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("item is not stocked at location %s", entry.LocationID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock level")
		}
		delta := entry.Quantity - level.CurrentStock
		if delta == 0 {
			return nil, nil
		}
		return s.AdjustStock(ctx, AdjustInput{
			ItemID:      entry.ItemID,
			LocationID:  entry.LocationID,
			Quantity:    delta,
			Reason:      entry.Reason,
			PerformedBy: performedBy,
		})
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported bulk operation %q", entry.Op))
}
