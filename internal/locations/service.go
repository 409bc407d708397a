package locations

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

// Service manages the stock location registry.
type Service interface {
	Create(ctx context.Context, input Input) (*DTO, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*DTO, error)
	List(ctx context.Context, activeOnly bool) ([]DTO, error)
}

// Input carries a location create/update payload.
type Input struct {
	Name     string
	Address  *string
	City     *string
	Notes    *string
	IsActive *bool
}

// DTO is the serialized location.
type DTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Address  *string   `json:"address,omitempty"`
	City     *string   `json:"city,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	IsActive bool      `json:"is_active"`
}

type referenceCounter interface {
	CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error)
}

type service struct {
	repo   *Repository
	ledger referenceCounter
}

// NewService constructs a location service.
func NewService(repo *Repository, ledger referenceCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("transaction counter required")
	}
	return &service{repo: repo, ledger: ledger}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*DTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}
	location := &models.StockLocation{
		Name:     name,
		Address:  input.Address,
		City:     input.City,
		Notes:    input.Notes,
		IsActive: true,
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	created, err := s.repo.Create(ctx, location)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_stock_locations_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("location %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*DTO, error) {
	location, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		location.Name = name
	}
	if input.Address != nil {
		location.Address = input.Address
	}
	if input.City != nil {
		location.City = input.City
	}
	if input.Notes != nil {
		location.Notes = input.Notes
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	saved, err := s.repo.Save(ctx, location)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_stock_locations_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("location %q already exists", location.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return toDTO(saved), nil
}

// Delete removes a location unless stock levels or ledger rows reference it.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	location, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	levels, err := s.repo.CountStockLevels(ctx, location.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock levels")
	}
	if levels > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("location %q still holds stock levels", location.Name))
	}
	transactions, err := s.ledger.CountByLocation(ctx, location.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count location transactions")
	}
	if transactions > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("location %q is referenced by transactions", location.Name))
	}
	if err := s.repo.Delete(ctx, location.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DTO, error) {
	location, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(location), nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]DTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	out := make([]DTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.StockLocation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id is required")
	}
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("location %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return location, nil
}

func toDTO(location *models.StockLocation) *DTO {
	return &DTO{
		ID:       location.ID,
		Name:     location.Name,
		Address:  location.Address,
		City:     location.City,
		Notes:    location.Notes,
		IsActive: location.IsActive,
	}
}
