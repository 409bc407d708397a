package controllers

import (
	"net/http"
	"time"

	"github.com/brightvolt/backoffice-backend/api/responses"
	"github.com/brightvolt/backoffice-backend/api/validators"
	"github.com/brightvolt/backoffice-backend/internal/reports"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
)

func StockReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters reports.StockReportFilters
		if raw := r.URL.Query().Get("category"); raw != "" {
			category, err := enums.ParseItemCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filters.Category = &category
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filters.Status = &status
		}
		locationID, err := validators.QueryUUID(r, "location_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.LocationID = locationID

		report, err := svc.StockReport(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// MovementReport defaults to the trailing 30 days when no window is given.
func MovementReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		to, err := validators.QueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.QueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		window := reports.MovementWindow{}
		if to != nil {
			window.To = *to
		} else {
			window.To = time.Now().UTC()
		}
		if from != nil {
			window.From = *from
		} else {
			window.From = window.To.AddDate(0, 0, -30)
		}

		report, err := svc.MovementReport(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func ValuationReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.ValuationReport(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func DashboardSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.DashboardSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
