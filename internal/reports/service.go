package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

// Service produces read-only aggregates over items, stock levels, and the
// transaction ledger for the back-office dashboard.
type Service interface {
	StockReport(ctx context.Context, filters StockReportFilters) (*StockReport, error)
	MovementReport(ctx context.Context, window MovementWindow) (*MovementReport, error)
	ValuationReport(ctx context.Context) (*ValuationReport, error)
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a reporting service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

// StockReport summarizes current holdings per item with a per-location
// breakdown and counts per stock status.
func (s *service) StockReport(ctx context.Context, filters StockReportFilters) (*StockReport, error) {
	lines, err := s.repo.stockLines(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build stock report")
	}
	report := &StockReport{
		GeneratedAt:  time.Now().UTC(),
		Lines:        lines,
		StatusCounts: map[string]int{},
	}
	for i := range lines {
		report.StatusCounts[lines[i].StockStatus.String()]++
		report.TotalStock += lines[i].TotalStock
		report.TotalReserved += lines[i].TotalReserved
		report.TotalAvailable += lines[i].TotalAvailable
	}
	return report, nil
}

// MovementReport aggregates ledger rows over a time window, grouped by
// transaction type, with inbound/outbound quantity totals.
func (s *service) MovementReport(ctx context.Context, window MovementWindow) (*MovementReport, error) {
	if window.From.After(window.To) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report window start must precede its end")
	}
	groups, err := s.repo.movementGroups(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build movement report")
	}
	report := &MovementReport{
		GeneratedAt: time.Now().UTC(),
		From:        window.From,
		To:          window.To,
		ByType:      groups,
	}
	for _, group := range groups {
		report.TransactionCount += group.Count
		if group.Type.Inbound() {
			report.QuantityIn += group.TotalQuantity
		}
		if group.Type.Outbound() {
			report.QuantityOut += group.TotalQuantity
		}
	}
	return report, nil
}

// ValuationReport prices current holdings at each item's unit price. Items
// without a unit price contribute quantity but no value.
func (s *service) ValuationReport(ctx context.Context) (*ValuationReport, error) {
	lines, err := s.repo.valuationLines(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build valuation report")
	}
	report := &ValuationReport{
		GeneratedAt: time.Now().UTC(),
		Lines:       lines,
		GrandTotal:  decimal.Zero,
	}
	for i := range lines {
		report.GrandTotal = report.GrandTotal.Add(lines[i].TotalValue)
	}
	return report, nil
}

// DashboardSummary collects the headline counts plus the latest ledger rows.
func (s *service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	summary, err := s.repo.dashboardCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build dashboard summary")
	}
	recent, err := s.repo.recentTransactions(ctx, 10)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent transactions")
	}
	summary.GeneratedAt = time.Now().UTC()
	summary.RecentTransactions = recent
	return summary, nil
}
