package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

// hydrate joins ledger rows with readable item, location, and supplier
// summaries in three batch lookups.
func (s *service) hydrate(ctx context.Context, rows []models.StockTransaction) ([]TransactionDTO, error) {
	itemIDs := map[uuid.UUID]bool{}
	locationIDs := map[uuid.UUID]bool{}
	supplierIDs := map[uuid.UUID]bool{}
	for i := range rows {
		itemIDs[rows[i].ItemID] = true
		if rows[i].FromLocationID != nil {
			locationIDs[*rows[i].FromLocationID] = true
		}
		if rows[i].ToLocationID != nil {
			locationIDs[*rows[i].ToLocationID] = true
		}
		if rows[i].SupplierID != nil {
			supplierIDs[*rows[i].SupplierID] = true
		}
	}

	items, err := s.repo.itemSummaries(ctx, keys(itemIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item summaries")
	}
	locations, err := s.repo.locationSummaries(ctx, keys(locationIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location summaries")
	}
	suppliers, err := s.repo.supplierSummaries(ctx, keys(supplierIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier summaries")
	}

	dtos := make([]TransactionDTO, 0, len(rows))
	for i := range rows {
		row := rows[i]
		dto := TransactionDTO{
			ID:            row.ID,
			Reference:     row.Reference,
			Type:          row.Type,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			TotalValue:    row.TotalValue,
			ProjectRef:    row.ProjectRef,
			PerformedBy:   row.PerformedBy,
			TransactionAt: row.TransactionAt,
			StockBefore:   row.StockBefore,
			StockAfter:    row.StockAfter,
			Notes:         row.Notes,
			DocumentRef:   row.DocumentRef,
			CreatedAt:     row.CreatedAt,
		}
		if item, ok := items[row.ItemID]; ok {
			dto.Item = item
		} else {
			dto.Item = ItemSummary{ID: row.ItemID, Code: "(deleted)", Name: "(deleted)"}
		}
		if row.FromLocationID != nil {
			if loc, ok := locations[*row.FromLocationID]; ok {
				dto.FromLocation = &loc
			}
		}
		if row.ToLocationID != nil {
			if loc, ok := locations[*row.ToLocationID]; ok {
				dto.ToLocation = &loc
			}
		}
		if row.SupplierID != nil {
			if supplier, ok := suppliers[*row.SupplierID]; ok {
				dto.Supplier = &supplier
			}
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

func keys(set map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (r *Repository) itemSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ItemSummary, error) {
	out := map[uuid.UUID]ItemSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Select("id", "code", "name").
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	for _, item := range items {
		out[item.ID] = ItemSummary{ID: item.ID, Code: item.Code, Name: item.Name}
	}
	return out, nil
}

func (r *Repository) locationSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]LocationSummary, error) {
	out := map[uuid.UUID]LocationSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	var locations []models.StockLocation
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	for _, loc := range locations {
		out[loc.ID] = LocationSummary{ID: loc.ID, Name: loc.Name}
	}
	return out, nil
}

func (r *Repository) supplierSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]SupplierSummary, error) {
	out := map[uuid.UUID]SupplierSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	for _, supplier := range suppliers {
		out[supplier.ID] = SupplierSummary{ID: supplier.ID, Name: supplier.Name}
	}
	return out, nil
}
