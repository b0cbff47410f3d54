package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	dbm "github.com/vendora/supplier/internal/supplier/db/models"
	e "github.com/vendora/supplier/internal/supplier/errors"
	"github.com/vendora/supplier/internal/supplier/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository is the supplier store. It owns identifier assignment:
// suppliers receive the autoincrement row id through SetID, products
// receive a generated uuid.
type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var db *gorm.DB
	err := backoff.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryWithDB(db)
}

// NewRepositoryWithDB wraps an already opened gorm connection and runs
// the migrations. Embedded setups and tests use it with drivers other
// than postgres.
func NewRepositoryWithDB(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&dbm.Supplier{}, &dbm.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// CreateSupplier inserts the supplier and its catalog, then assigns the
// generated identifier to the domain model via SetID.
func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	row := dbm.Supplier{
		Name:    supplier.Name(),
		Email:   supplier.Email(),
		Address: supplier.Address(),
	}
	for _, p := range supplier.Products() {
		row.Products = append(row.Products, dbm.Product{ID: p.ID(), Name: p.Name()})
	}

	result := r.db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return supplier.SetID(row.ID)
}

// GetSupplier fetches a supplier by its zero-padded identifier and
// rebuilds the domain model, catalog included.
func (r *Repository) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	rowID, err := parseSupplierID(id)
	if err != nil {
		return nil, err
	}

	var row dbm.Supplier
	result := r.db.WithContext(ctx).Preload("Products").First(&row, "id = ?", rowID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return supplierFromRow(&row)
}

// UpdateSupplier applies the non-nil fields of update to the stored
// supplier.
func (r *Repository) UpdateSupplier(ctx context.Context, update *models.SupplierUpdate) error {
	rowID, err := parseSupplierID(update.ID)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty update", e.ErrInvalidInput)
	}

	result := r.db.WithContext(ctx).Model(&dbm.Supplier{}).
		Where("id = ?", rowID).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// AddProduct stores a product under the given supplier. A product
// without an identifier receives a generated one via SetID before the
// row is written; an existing row with the same identifier is
// overwritten.
func (r *Repository) AddProduct(ctx context.Context, supplierID string, product *models.Product) error {
	rowID, err := parseSupplierID(supplierID)
	if err != nil {
		return err
	}

	var count int64
	result := r.db.WithContext(ctx).Model(&dbm.Supplier{}).
		Where("id = ?", rowID).
		Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count == 0 {
		return e.ErrNotFound
	}

	if product.ID() == "" {
		if err := product.SetID(uuid.NewString()); err != nil {
			return err
		}
	}

	row := dbm.Product{ID: product.ID(), SupplierID: rowID, Name: product.Name()}
	return r.db.WithContext(ctx).Save(&row).Error
}

func (r *Repository) SupplierExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbm.Supplier{}).
		Select("name").
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func supplierFromRow(row *dbm.Supplier) (*models.Supplier, error) {
	supplier, err := models.NewSupplier(models.SupplierParams{
		Name:    row.Name,
		Email:   row.Email,
		Address: row.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("stored supplier %d no longer validates: %w", row.ID, err)
	}
	if err := supplier.SetID(row.ID); err != nil {
		return nil, err
	}
	for _, pr := range row.Products {
		product := models.NewProduct(pr.Name)
		if err := product.SetID(pr.ID); err != nil {
			return nil, err
		}
		if err := supplier.AddProduct(product); err != nil {
			return nil, err
		}
	}
	return supplier, nil
}

func parseSupplierID(id string) (int64, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed supplier id %q", e.ErrInvalidInput, id)
	}
	return rowID, nil
}
