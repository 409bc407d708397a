package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightvolt/backoffice-backend/api/controllers"
	"github.com/brightvolt/backoffice-backend/api/middleware"
	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/internal/ledger"
	"github.com/brightvolt/backoffice-backend/internal/locations"
	"github.com/brightvolt/backoffice-backend/internal/reports"
	"github.com/brightvolt/backoffice-backend/internal/suppliers"
	"github.com/brightvolt/backoffice-backend/pkg/config"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
)

// NewRouter wires the HTTP surface: item catalog, transaction ledger,
// location and supplier registries, reports, and health probes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	catalogService catalog.Service,
	ledgerService ledger.Service,
	locationService locations.Service,
	supplierService suppliers.Service,
	reportService reports.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Actor(logg),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, readiness))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(catalogService, logg))
			r.Post("/", controllers.CreateItem(catalogService, logg))
			r.Post("/bulk-adjust", controllers.BulkAdjustStock(ledgerService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(catalogService, logg))
				r.Put("/", controllers.UpdateItem(catalogService, logg))
				r.Delete("/", controllers.DeleteItem(catalogService, logg))
				r.Post("/adjust", controllers.AdjustItemStock(ledgerService, logg))
				r.Post("/reserved", controllers.AdjustReservedStock(ledgerService, logg))
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(ledgerService, logg))
			r.Post("/", controllers.CreateTransaction(ledgerService, logg))
			r.Get("/{id}", controllers.GetTransaction(ledgerService, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.ListLocations(locationService, logg))
			r.Post("/", controllers.CreateLocation(locationService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetLocation(locationService, logg))
				r.Put("/", controllers.UpdateLocation(locationService, logg))
				r.Delete("/", controllers.DeleteLocation(locationService, logg))
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(supplierService, logg))
			r.Post("/", controllers.CreateSupplier(supplierService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetSupplier(supplierService, logg))
				r.Put("/", controllers.UpdateSupplier(supplierService, logg))
				r.Delete("/", controllers.DeleteSupplier(supplierService, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/stock", controllers.StockReport(reportService, logg))
			r.Get("/movements", controllers.MovementReport(reportService, logg))
			r.Get("/valuation", controllers.ValuationReport(reportService, logg))
			r.Get("/dashboard", controllers.DashboardSummary(reportService, logg))
		})
	})

	return r
}
