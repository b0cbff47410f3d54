// Package models contains the database row types for the supplier
// store, configured to work using GORM as the ORM. They are kept apart
// from the domain models, which own validation and expose no fields.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Supplier is the suppliers table row. The autoincrement primary key is
// the source of the domain identifier: the repository hands it to the
// domain model, which stores it zero-padded.
type Supplier struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Name      string         `gorm:"size:255;uniqueIndex"`
	Email     string         `gorm:"size:255"`
	Address   string         `gorm:"size:500"`
	Products  []Product      `gorm:"foreignKey:SupplierID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Product is the products table row, keyed by the assigned product
// identifier.
type Product struct {
	ID         string `gorm:"primaryKey;size:36"`
	SupplierID int64  `gorm:"index"`
	Name       string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
