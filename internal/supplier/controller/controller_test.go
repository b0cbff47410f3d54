package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vendora/supplier/internal/pkg/utils"
	"github.com/vendora/supplier/internal/supplier/db"
	e "github.com/vendora/supplier/internal/supplier/errors"
	"github.com/vendora/supplier/internal/supplier/events"
	"github.com/vendora/supplier/internal/supplier/models"
	"go.uber.org/zap/zaptest"
)

// MockRepository implements the Repository interface for testing
type MockRepository struct {
	createSupplier       func(context.Context, *models.Supplier) error
	getSupplier          func(context.Context, string) (*models.Supplier, error)
	updateSupplier       func(context.Context, *models.SupplierUpdate) error
	addProduct           func(context.Context, string, *models.Product) error
	supplierExistsByName func(context.Context, string) (bool, error)
	withTransaction      func(context.Context, func(*db.Repository) error) error
}

func (m *MockRepository) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	return m.createSupplier(ctx, s)
}

func (m *MockRepository) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	return m.getSupplier(ctx, id)
}

func (m *MockRepository) UpdateSupplier(ctx context.Context, u *models.SupplierUpdate) error {
	return m.updateSupplier(ctx, u)
}

func (m *MockRepository) AddProduct(ctx context.Context, id string, p *models.Product) error {
	return m.addProduct(ctx, id, p)
}

func (m *MockRepository) SupplierExistsByName(ctx context.Context, name string) (bool, error) {
	return m.supplierExistsByName(ctx, name)
}

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(*db.Repository) error) error {
	return m.withTransaction(ctx, fn)
}

func (m *MockRepository) Close() error {
	return nil
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	producedEvents []interface{}
	wg             *sync.WaitGroup
}

// Produce records the event and signals the wait group.
func (m *MockProducer) Produce(eventType events.EventType, supplier *models.Supplier) {
	m.producedEvents = append(m.producedEvents, struct {
		EventType events.EventType
		Supplier  *models.Supplier
	}{eventType, supplier})
	if m.wg != nil {
		m.wg.Done()
	}
}

func newSupplier(t *testing.T, name, email, address string) *models.Supplier {
	t.Helper()
	s, err := models.NewSupplier(models.SupplierParams{Name: name, Email: email, Address: address})
	if err != nil {
		t.Fatalf("failed to build supplier: %v", err)
	}
	return s
}

func TestSupplierService_RegisterSupplier(t *testing.T) {
	tests := []struct {
		name          string
		input         func(*testing.T) *models.Supplier
		mockSetup     func(*MockRepository, *MockProducer)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful registration",
			input: func(t *testing.T) *models.Supplier {
				return newSupplier(t, "Acme", "a@x.com", "")
			},
			mockSetup: func(mr *MockRepository, _ *MockProducer) {
				mr.supplierExistsByName = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.createSupplier = func(_ context.Context, s *models.Supplier) error {
					return s.SetID(17)
				}
			},
			expectError: false,
		},
		{
			name: "duplicate name",
			input: func(t *testing.T) *models.Supplier {
				return newSupplier(t, "Duplicate", "a@x.com", "")
			},
			mockSetup: func(mr *MockRepository, _ *MockProducer) {
				mr.supplierExistsByName = func(_ context.Context, _ string) (bool, error) {
					return true, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrDuplicateName,
		},
		{
			name: "contact info cleared after construction",
			input: func(t *testing.T) *models.Supplier {
				s := newSupplier(t, "Acme", "a@x.com", "")
				s.SetEmail("")
				return s
			},
			mockSetup:     func(_ *MockRepository, _ *MockProducer) {},
			expectError:   true,
			expectedError: e.ErrMissingContactInfo,
		},
		{
			name: "repository error",
			input: func(t *testing.T) *models.Supplier {
				return newSupplier(t, "Acme", "a@x.com", "")
			},
			mockSetup: func(mr *MockRepository, _ *MockProducer) {
				mr.supplierExistsByName = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.createSupplier = func(_ context.Context, _ *models.Supplier) error {
					return errors.New("database error")
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(mockRepo, mockProducer)
			service := NewSupplierService(mockRepo, mockProducer, logger)

			// For successful registration, add one waitgroup counter for the async event.
			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			result, err := service.RegisterSupplier(context.Background(), tt.input(t))

			// Wait for the event production to complete.
			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.ID() == "" {
					t.Error("expected supplier ID to be assigned")
				}
				if result.ID() != "0000000017" {
					t.Errorf("expected zero-padded ID, got %q", result.ID())
				}
				if len(mockProducer.producedEvents) != 1 {
					t.Error("expected registration event to be produced")
				}
			}
		})
	}
}

func TestSupplierService_GetSupplier(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		mockSetup     func(*testing.T, *MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name:  "successful get",
			input: "0000000001",
			mockSetup: func(t *testing.T, mr *MockRepository) {
				mr.getSupplier = func(_ context.Context, id string) (*models.Supplier, error) {
					s := newSupplier(t, "Existing Supplier", "a@x.com", "")
					if err := s.SetID(1); err != nil {
						return nil, err
					}
					return s, nil
				}
			},
			expectError: false,
		},
		{
			name:  "not found",
			input: "0000000404",
			mockSetup: func(t *testing.T, mr *MockRepository) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			tt.mockSetup(t, mockRepo)

			service := NewSupplierService(mockRepo, &MockProducer{}, logger)
			result, err := service.GetSupplier(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.ID() != tt.input {
					t.Errorf("expected supplier ID %v, got %v", tt.input, result.ID())
				}
			}
		})
	}
}

func TestSupplierService_UpdateContact(t *testing.T) {
	tests := []struct {
		name          string
		input         *models.SupplierUpdate
		mockSetup     func(*testing.T, *MockRepository, *MockProducer)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful update",
			input: &models.SupplierUpdate{
				ID:      "0000000001",
				Email:   utils.Ptr("sales@acme.example"),
				Address: utils.Ptr("1 Main St"),
			},
			mockSetup: func(t *testing.T, mr *MockRepository, _ *MockProducer) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					s := newSupplier(t, "Acme", "a@x.com", "")
					if err := s.SetID(1); err != nil {
						return nil, err
					}
					return s, nil
				}
				mr.updateSupplier = func(_ context.Context, _ *models.SupplierUpdate) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "invalid ID",
			input: &models.SupplierUpdate{
				ID: "",
			},
			mockSetup:     func(_ *testing.T, _ *MockRepository, _ *MockProducer) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "update clearing both contact methods",
			input: &models.SupplierUpdate{
				ID:      "0000000001",
				Email:   utils.Ptr(""),
				Address: utils.Ptr(""),
			},
			mockSetup: func(t *testing.T, mr *MockRepository, _ *MockProducer) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					return newSupplier(t, "Acme", "a@x.com", ""), nil
				}
			},
			expectError:   true,
			expectedError: e.ErrMissingContactInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(t, mockRepo, mockProducer)

			service := NewSupplierService(mockRepo, mockProducer, logger)

			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			result, err := service.UpdateContact(context.Background(), tt.input)

			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.Email() != "sales@acme.example" {
					t.Errorf("expected updated email, got %q", result.Email())
				}
				if len(mockProducer.producedEvents) != 1 {
					t.Error("expected update event to be produced")
				}
			}
		})
	}
}

func TestSupplierService_AddProduct(t *testing.T) {
	tests := []struct {
		name          string
		product       *models.Product
		mockSetup     func(*testing.T, *MockRepository, *MockProducer)
		expectError   bool
		expectedError error
	}{
		{
			name:    "successful add with assigned id",
			product: models.NewProduct("Widget"),
			mockSetup: func(t *testing.T, mr *MockRepository, _ *MockProducer) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					s := newSupplier(t, "Acme", "a@x.com", "")
					if err := s.SetID(1); err != nil {
						return nil, err
					}
					return s, nil
				}
				mr.addProduct = func(_ context.Context, _ string, p *models.Product) error {
					// The repository assigns identifiers to new products.
					return p.SetID("generated-id")
				}
			},
			expectError: false,
		},
		{
			name:          "nil product",
			product:       nil,
			mockSetup:     func(_ *testing.T, _ *MockRepository, _ *MockProducer) {},
			expectError:   true,
			expectedError: e.ErrInvalidType,
		},
		{
			name:    "supplier not found",
			product: models.NewProduct("Widget"),
			mockSetup: func(t *testing.T, mr *MockRepository, _ *MockProducer) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
		{
			name:    "repository leaves product without id",
			product: models.NewProduct("Widget"),
			mockSetup: func(t *testing.T, mr *MockRepository, _ *MockProducer) {
				mr.getSupplier = func(_ context.Context, _ string) (*models.Supplier, error) {
					return newSupplier(t, "Acme", "a@x.com", ""), nil
				}
				mr.addProduct = func(_ context.Context, _ string, _ *models.Product) error {
					return nil
				}
			},
			expectError:   true,
			expectedError: e.ErrMissingProductID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(t, mockRepo, mockProducer)

			service := NewSupplierService(mockRepo, mockProducer, logger)

			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			result, err := service.AddProduct(context.Background(), "0000000001", tt.product)

			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(result.Products()) != 1 {
					t.Errorf("expected one product, got %d", len(result.Products()))
				}
				if _, ok := result.Products()["generated-id"]; !ok {
					t.Error("expected product stored under its assigned identifier")
				}
				if len(mockProducer.producedEvents) != 1 {
					t.Error("expected product event to be produced")
				}
			}
		})
	}
}
