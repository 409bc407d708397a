package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/brightvolt/backoffice-backend/api/controllers"
	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/internal/ledger"
	"github.com/brightvolt/backoffice-backend/internal/locations"
	"github.com/brightvolt/backoffice-backend/internal/reports"
	"github.com/brightvolt/backoffice-backend/internal/suppliers"
	"github.com/brightvolt/backoffice-backend/pkg/config"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalogService struct{}

func (stubCatalogService) CreateItem(ctx context.Context, input catalog.CreateItemInput) (*catalog.ItemDTO, error) {
	return &catalog.ItemDTO{Code: input.Code}, nil
}

func (stubCatalogService) UpdateItem(ctx context.Context, itemID uuid.UUID, input catalog.UpdateItemInput) (*catalog.ItemDTO, error) {
	return &catalog.ItemDTO{ID: itemID}, nil
}

func (stubCatalogService) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	return true, nil
}

func (stubCatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*catalog.ItemDTO, error) {
	return &catalog.ItemDTO{ID: itemID}, nil
}

func (stubCatalogService) ListItems(ctx context.Context, params pagination.Params, filters catalog.ListFilters) (*catalog.ItemListDTO, error) {
	return &catalog.ItemListDTO{Items: []catalog.ItemDTO{}}, nil
}

type stubLedgerService struct {
	adjustPerformer string
}

func (s *stubLedgerService) CreateTransaction(ctx context.Context, input ledger.CreateTransactionInput) (*ledger.TransactionDTO, error) {
	return &ledger.TransactionDTO{Reference: "TXN-PUR-20260831-TESTSTUB"}, nil
}

func (s *stubLedgerService) AdjustReserved(ctx context.Context, input ledger.ReserveInput) (*ledger.TransactionDTO, error) {
	return nil, nil
}

func (s *stubLedgerService) AdjustStock(ctx context.Context, input ledger.AdjustInput) (*ledger.TransactionDTO, error) {
	s.adjustPerformer = input.PerformedBy
	return &ledger.TransactionDTO{}, nil
}

func (s *stubLedgerService) BulkAdjust(ctx context.Context, performedBy string, entries []ledger.BulkEntry) []ledger.BulkResult {
	return []ledger.BulkResult{}
}

func (s *stubLedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.TransactionDTO, error) {
	return &ledger.TransactionDTO{ID: id}, nil
}

func (s *stubLedgerService) ListTransactions(ctx context.Context, params pagination.Params, filters ledger.ListFilters) (*ledger.TransactionListDTO, error) {
	return &ledger.TransactionListDTO{Transactions: []ledger.TransactionDTO{}}, nil
}

type stubLocationService struct{}

func (stubLocationService) Create(ctx context.Context, input locations.Input) (*locations.DTO, error) {
	return &locations.DTO{Name: input.Name}, nil
}

func (stubLocationService) Update(ctx context.Context, id uuid.UUID, input locations.Input) (*locations.DTO, error) {
	return &locations.DTO{ID: id}, nil
}

func (stubLocationService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubLocationService) Get(ctx context.Context, id uuid.UUID) (*locations.DTO, error) {
	return &locations.DTO{ID: id}, nil
}

func (stubLocationService) List(ctx context.Context, activeOnly bool) ([]locations.DTO, error) {
	return []locations.DTO{}, nil
}

type stubSupplierService struct{}

func (stubSupplierService) Create(ctx context.Context, input suppliers.Input) (*suppliers.DTO, error) {
	return &suppliers.DTO{Name: input.Name}, nil
}

func (stubSupplierService) Update(ctx context.Context, id uuid.UUID, input suppliers.Input) (*suppliers.DTO, error) {
	return &suppliers.DTO{ID: id}, nil
}

func (stubSupplierService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubSupplierService) Get(ctx context.Context, id uuid.UUID) (*suppliers.DTO, error) {
	return &suppliers.DTO{ID: id}, nil
}

func (stubSupplierService) List(ctx context.Context, activeOnly bool) ([]suppliers.DTO, error) {
	return []suppliers.DTO{}, nil
}

type stubReportService struct{}

func (stubReportService) StockReport(ctx context.Context, filters reports.StockReportFilters) (*reports.StockReport, error) {
	return &reports.StockReport{}, nil
}

func (stubReportService) MovementReport(ctx context.Context, window reports.MovementWindow) (*reports.MovementReport, error) {
	return &reports.MovementReport{}, nil
}

func (stubReportService) ValuationReport(ctx context.Context) (*reports.ValuationReport, error) {
	return &reports.ValuationReport{}, nil
}

func (stubReportService) DashboardSummary(ctx context.Context) (*reports.DashboardSummary, error) {
	return &reports.DashboardSummary{}, nil
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
}

func newTestRouter(ledgerService ledger.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if ledgerService == nil {
		ledgerService = &stubLedgerService{}
	}
	return NewRouter(
		testConfig(),
		logg,
		map[string]controllers.Pinger{"database": stubPinger{}},
		stubCatalogService{},
		ledgerService,
		stubLocationService{},
		stubSupplierService{},
		stubReportService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-BrightVolt-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestListItemsRoute(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for item list got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"data"`) {
		t.Fatalf("expected data envelope, got %s", resp.Body.String())
	}
}

func TestCreateItemRejectsBadJSON(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestAdjustUsesActorHeaderWhenBodyOmitsPerformer(t *testing.T) {
	stub := &stubLedgerService{}
	router := newTestRouter(stub)

	body := `{"location_id":"` + uuid.NewString() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+uuid.NewString()+"/adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Id", "jvermeer")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for adjust got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.adjustPerformer != "jvermeer" {
		t.Fatalf("expected actor header as performer, got %q", stub.adjustPerformer)
	}
}

func TestReserveNoChangeEnvelope(t *testing.T) {
	router := newTestRouter(nil)

	body := `{"location_id":"` + uuid.NewString() + `","action":"UNRESERVE_ALL","performed_by":"jvermeer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+uuid.NewString()+"/reserved", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for no-op release got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "no_change") {
		t.Fatalf("expected no_change result, got %s", resp.Body.String())
	}
}

func TestReportRoutes(t *testing.T) {
	router := newTestRouter(nil)
	for _, path := range []string{
		"/api/v1/reports/stock",
		"/api/v1/reports/movements",
		"/api/v1/reports/valuation",
		"/api/v1/reports/dashboard",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}
