// Package controller implements the core business logic (service layer)
// for managing Supplier entities, orchestrating repository operations
// and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendora/supplier/internal/supplier/db"
	e "github.com/vendora/supplier/internal/supplier/errors"
	"github.com/vendora/supplier/internal/supplier/events"
	"github.com/vendora/supplier/internal/supplier/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, supplier *models.Supplier)
}

// Repository defines the storage interface for Supplier objects. The
// implementation assigns identifiers: CreateSupplier sets the supplier
// id, AddProduct sets the product id when it is still unset.
type Repository interface {
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, update *models.SupplierUpdate) error
	AddProduct(ctx context.Context, supplierID string, product *models.Product) error
	SupplierExistsByName(ctx context.Context, name string) (bool, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// SupplierService provides methods to manage suppliers via repository
// operations and event production.
type SupplierService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewSupplierService constructs a SupplierService with a repository,
// an event producer, and a logger.
func NewSupplierService(repo Repository, producer EventProducer, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("supplier_service"),
	}
}

// RegisterSupplier stores a new Supplier after validating input data,
// ensures uniqueness by name, and triggers an event. On success the
// supplier carries its assigned identifier.
func (s *SupplierService) RegisterSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if supplier == nil {
		return nil, fmt.Errorf("%w: nil supplier", e.ErrInvalidInput)
	}
	if supplier.Name() == "" || len(supplier.Name()) > 255 {
		return nil, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.SupplierExistsByName(ctx, supplier.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	go func() {
		s.producer.Produce(events.SupplierRegistered, supplier)
	}()
	return supplier, nil
}

// GetSupplier retrieves a Supplier by its zero-padded identifier,
// returning an error if not found.
func (s *SupplierService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

// UpdateContact modifies the specified Supplier fields. The contact
// invariant is re-asserted here, so an update cannot clear both email
// and address even though the model's setters allow it.
func (s *SupplierService) UpdateContact(ctx context.Context, update *models.SupplierUpdate) (*models.Supplier, error) {
	if update == nil || update.ID == "" {
		return nil, fmt.Errorf("%w: invalid supplier ID", e.ErrInvalidInput)
	}

	supplier, err := s.repo.GetSupplier(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get supplier for update: %w", err)
	}

	if update.Name != nil {
		supplier.SetName(*update.Name)
	}
	if update.Email != nil {
		supplier.SetEmail(*update.Email)
	}
	if update.Address != nil {
		supplier.SetAddress(*update.Address)
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSupplier(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	go func() {
		s.producer.Produce(events.SupplierUpdated, supplier)
	}()
	return supplier, nil
}

// AddProduct stores a product under the supplier and attaches it to the
// domain model. A product without an identifier receives one from the
// repository before insertion.
func (s *SupplierService) AddProduct(ctx context.Context, supplierID string, product *models.Product) (*models.Supplier, error) {
	if product == nil {
		return nil, e.NewValidationError(e.ErrInvalidType, "product", nil)
	}

	supplier, err := s.repo.GetSupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get supplier for product: %w", err)
	}

	if err := s.repo.AddProduct(ctx, supplierID, product); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}
	if err := supplier.AddProduct(product); err != nil {
		s.logger.Error("Stored product rejected by domain model",
			zap.Error(err),
			zap.String("supplier_id", supplierID),
		)
		return nil, err
	}

	go func() {
		s.producer.Produce(events.ProductAdded, supplier)
	}()
	return supplier, nil
}
