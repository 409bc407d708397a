package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
)

type itemSweepStore interface {
	ItemBatch(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Item, error)
	UpdateItemDerived(ctx context.Context, item *models.Item) error
}

// StockStatusJob is the reconciliation sweep: it re-derives stock status and
// cached aggregates for every item and persists only the rows whose stored
// values drifted. Two consecutive runs with no intervening transactions make
// zero writes on the second pass.
type StockStatusJob struct {
	store     itemSweepStore
	logg      *logger.Logger
	interval  time.Duration
	batchSize int
}

// NewStockStatusJob constructs the sweep job.
func NewStockStatusJob(store itemSweepStore, logg *logger.Logger, interval time.Duration, batchSize int) (*StockStatusJob, error) {
	if store == nil {
		return nil, fmt.Errorf("item store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &StockStatusJob{store: store, logg: logg, interval: interval, batchSize: batchSize}, nil
}

func (j *StockStatusJob) Name() string { return "stock-status-reconcile" }

func (j *StockStatusJob) Interval() time.Duration { return j.interval }

// Run scans all items in id-ordered batches. Per-item failures are collected
// and the sweep continues; the combined error is returned at the end.
func (j *StockStatusJob) Run(ctx context.Context) error {
	var (
		errs      error
		scanned   int
		corrected int
		afterID   uuid.UUID
	)

	for {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		items, err := j.store.ItemBatch(ctx, afterID, j.batchSize)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("load item batch: %w", err))
		}
		if len(items) == 0 {
			break
		}
		for i := range items {
			scanned++
			item := &items[i]
			if !j.reconcile(item) {
				continue
			}
			if err := j.store.UpdateItemDerived(ctx, item); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("item %s: %w", item.ID, err))
				continue
			}
			corrected++
		}
		afterID = items[len(items)-1].ID
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":   scanned,
		"corrected": corrected,
	})
	j.logg.Info(logCtx, "stock status sweep complete")
	return errs
}

// reconcile re-derives the item's cached fields in place and reports whether
// anything drifted from the stored values.
func (j *StockStatusJob) reconcile(item *models.Item) bool {
	prevStatus := item.StockStatus
	prevStock := item.TotalStock
	prevReserved := item.TotalReserved
	prevAvailable := item.TotalAvailable

	catalog.ApplyDerived(item)

	return item.StockStatus != prevStatus ||
		item.TotalStock != prevStock ||
		item.TotalReserved != prevReserved ||
		item.TotalAvailable != prevAvailable
}
