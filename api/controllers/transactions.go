package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightvolt/backoffice-backend/api/middleware"
	"github.com/brightvolt/backoffice-backend/api/responses"
	"github.com/brightvolt/backoffice-backend/api/validators"
	"github.com/brightvolt/backoffice-backend/internal/ledger"
	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/pagination"
)

// CreateTransaction executes one stock movement and returns its ledger row.
func CreateTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(performer(r, payload.PerformedBy))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.CreateTransaction(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// GetTransaction returns a single ledger row with readable references.
func GetTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "transaction id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.GetTransaction(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// ListTransactions returns a filtered, cursor-paginated ledger listing.
func ListTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, params, err := parseTransactionFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListTransactions(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdjustItemStock applies a signed stock adjustment at one location.
func AdjustItemStock(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.PathUUID(chi.URLParam(r, "id"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.PathUUID(payload.LocationID, "location_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.AdjustStock(r.Context(), ledger.AdjustInput{
			ItemID:      itemID,
			LocationID:  locationID,
			Quantity:    payload.Quantity,
			Reason:      payload.Reason,
			PerformedBy: performer(r, payload.PerformedBy),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// AdjustReservedStock handles reserve increases, decreases, and full release.
func AdjustReservedStock(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.PathUUID(chi.URLParam(r, "id"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload reserveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.PathUUID(payload.LocationID, "location_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseReserveAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}
		txn, err := svc.AdjustReserved(r.Context(), ledger.ReserveInput{
			ItemID:      itemID,
			LocationID:  locationID,
			Action:      action,
			Quantity:    payload.Quantity,
			ProjectRef:  payload.ProjectRef,
			PerformedBy: performer(r, payload.PerformedBy),
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if txn == nil {
			responses.WriteSuccess(w, map[string]string{"result": "no_change"})
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// BulkAdjustStock processes a batch of adjustments with per-entry results.
func BulkAdjustStock(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkAdjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries := make([]ledger.BulkEntry, 0, len(payload.Entries))
		for _, entry := range payload.Entries {
			itemID, err := validators.PathUUID(entry.ItemID, "item_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			locationID, err := validators.PathUUID(entry.LocationID, "location_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			entries = append(entries, ledger.BulkEntry{
				ItemID:     itemID,
				LocationID: locationID,
				Op:         ledger.BulkOp(entry.Op),
				Quantity:   entry.Quantity,
				Reason:     entry.Reason,
			})
		}
		results := svc.BulkAdjust(r.Context(), performer(r, payload.PerformedBy), entries)
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}

// performer resolves who is acting: an explicit body field wins, otherwise
// the X-Actor-Id header recorded by the actor middleware.
func performer(r *http.Request, explicit *string) string {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	return middleware.ActorFrom(r.Context())
}

func parseTransactionFilters(r *http.Request) (ledger.ListFilters, pagination.Params, error) {
	var filters ledger.ListFilters

	itemID, err := validators.QueryUUID(r, "item_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.ItemID = itemID
	locationID, err := validators.QueryUUID(r, "location_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.LocationID = locationID
	supplierID, err := validators.QueryUUID(r, "supplier_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.SupplierID = supplierID
	if raw := r.URL.Query().Get("type"); raw != "" {
		txnType, err := enums.ParseTransactionType(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filters.Type = &txnType
	}
	filters.ProjectRef = r.URL.Query().Get("project_ref")
	from, err := validators.QueryTime(r, "from")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.From = from
	to, err := validators.QueryTime(r, "to")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.To = to

	limit, err := validators.QueryInt(r, "limit", 0)
	if err != nil {
		return filters, pagination.Params{}, err
	}
	params := pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}
	return filters, params, nil
}

type createTransactionRequest struct {
	ItemID         string  `json:"item_id" validate:"required,uuid"`
	Type           string  `json:"type" validate:"required"`
	Quantity       int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice      *string `json:"unit_price,omitempty"`
	FromLocationID *string `json:"from_location_id,omitempty" validate:"omitempty,uuid"`
	ToLocationID   *string `json:"to_location_id,omitempty" validate:"omitempty,uuid"`
	ProjectRef     *string `json:"project_ref,omitempty"`
	SupplierID     *string `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	PerformedBy    *string `json:"performed_by,omitempty"`
	TransactionAt  *string `json:"transaction_at,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	DocumentRef    *string `json:"document_ref,omitempty"`
}

func (p createTransactionRequest) toInput(performedBy string) (ledger.CreateTransactionInput, error) {
	itemID, err := validators.PathUUID(p.ItemID, "item_id")
	if err != nil {
		return ledger.CreateTransactionInput{}, err
	}
	txnType, err := enums.ParseTransactionType(p.Type)
	if err != nil {
		return ledger.CreateTransactionInput{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	price, err := parsePrice(p.UnitPrice)
	if err != nil {
		return ledger.CreateTransactionInput{}, err
	}

	input := ledger.CreateTransactionInput{
		ItemID:      itemID,
		Type:        txnType,
		Quantity:    p.Quantity,
		UnitPrice:   price,
		ProjectRef:  p.ProjectRef,
		PerformedBy: performedBy,
		Notes:       p.Notes,
		DocumentRef: p.DocumentRef,
	}
	input.FromLocationID, err = optionalUUID(p.FromLocationID, "from_location_id")
	if err != nil {
		return ledger.CreateTransactionInput{}, err
	}
	input.ToLocationID, err = optionalUUID(p.ToLocationID, "to_location_id")
	if err != nil {
		return ledger.CreateTransactionInput{}, err
	}
	input.SupplierID, err = optionalUUID(p.SupplierID, "supplier_id")
	if err != nil {
		return ledger.CreateTransactionInput{}, err
	}
	if p.TransactionAt != nil {
		at, err := time.Parse(time.RFC3339, *p.TransactionAt)
		if err != nil {
			return ledger.CreateTransactionInput{}, pkgerrors.New(pkgerrors.CodeValidation,
				"transaction_at must be an RFC 3339 timestamp")
		}
		input.TransactionAt = &at
	}
	return input, nil
}

func optionalUUID(raw *string, name string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := validators.PathUUID(*raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type adjustStockRequest struct {
	LocationID  string  `json:"location_id" validate:"required,uuid"`
	Quantity    int     `json:"quantity" validate:"required"`
	Reason      *string `json:"reason,omitempty"`
	PerformedBy *string `json:"performed_by,omitempty"`
}

type reserveRequest struct {
	LocationID  string  `json:"location_id" validate:"required,uuid"`
	Action      string  `json:"action" validate:"required"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	ProjectRef  *string `json:"project_ref,omitempty"`
	PerformedBy *string `json:"performed_by,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type bulkAdjustEntryRequest struct {
	ItemID     string  `json:"item_id" validate:"required,uuid"`
	LocationID string  `json:"location_id" validate:"required,uuid"`
	Op         string  `json:"op" validate:"required,oneof=add subtract set"`
	Quantity   int     `json:"quantity" validate:"min=0"`
	Reason     *string `json:"reason,omitempty"`
}

type bulkAdjustRequest struct {
	PerformedBy *string                  `json:"performed_by,omitempty"`
	Entries     []bulkAdjustEntryRequest `json:"entries" validate:"required,min=1,dive"`
}
