package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

// Service manages the supplier registry.
type Service interface {
	Create(ctx context.Context, input Input) (*DTO, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*DTO, error)
	List(ctx context.Context, activeOnly bool) ([]DTO, error)
}

// Input carries a supplier create/update payload.
type Input struct {
	Name         string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	PaymentTerms *string
	LeadTimeDays *int
	IsActive     *bool
}

// DTO is the serialized supplier.
type DTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactName  *string   `json:"contact_name,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	PaymentTerms *string   `json:"payment_terms,omitempty"`
	LeadTimeDays *int      `json:"lead_time_days,omitempty"`
	IsActive     bool      `json:"is_active"`
}

type referenceCounter interface {
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type service struct {
	repo   *Repository
	ledger referenceCounter
}

// NewService constructs a supplier service.
func NewService(repo *Repository, ledger referenceCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("transaction counter required")
	}
	return &service{repo: repo, ledger: ledger}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*DTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	if input.LeadTimeDays != nil && *input.LeadTimeDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead_time_days cannot be negative")
	}
	supplier := &models.Supplier{
		Name:         name,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		PaymentTerms: input.PaymentTerms,
		LeadTimeDays: input.LeadTimeDays,
		IsActive:     true,
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}
	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_suppliers_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("supplier %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*DTO, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		supplier.Name = name
	}
	if input.ContactName != nil {
		supplier.ContactName = input.ContactName
	}
	if input.ContactEmail != nil {
		supplier.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		supplier.ContactPhone = input.ContactPhone
	}
	if input.PaymentTerms != nil {
		supplier.PaymentTerms = input.PaymentTerms
	}
	if input.LeadTimeDays != nil {
		if *input.LeadTimeDays < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead_time_days cannot be negative")
		}
		supplier.LeadTimeDays = input.LeadTimeDays
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}
	saved, err := s.repo.Save(ctx, supplier)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_suppliers_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("supplier %q already exists", supplier.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
	}
	return toDTO(saved), nil
}

// Delete removes a supplier unless ledger rows reference it.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.ledger.CountBySupplier(ctx, supplier.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count supplier transactions")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("supplier %q is referenced by transactions", supplier.Name))
	}
	if err := s.repo.Delete(ctx, supplier.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DTO, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(supplier), nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]DTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	out := make([]DTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	supplier, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("supplier %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return supplier, nil
}

func toDTO(supplier *models.Supplier) *DTO {
	return &DTO{
		ID:           supplier.ID,
		Name:         supplier.Name,
		ContactName:  supplier.ContactName,
		ContactEmail: supplier.ContactEmail,
		ContactPhone: supplier.ContactPhone,
		PaymentTerms: supplier.PaymentTerms,
		LeadTimeDays: supplier.LeadTimeDays,
		IsActive:     supplier.IsActive,
	}
}
