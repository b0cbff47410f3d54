// Package models defines the core domain models for the Supplier entity
// and the Product records it offers. Field validation happens here;
// persistence and transport concerns live elsewhere.
package models

import (
	"encoding/json"
	"fmt"

	e "github.com/vendora/supplier/internal/supplier/errors"
)

// maxSupplierID bounds the valid identifier interval (0, maxSupplierID),
// both ends exclusive. Every valid identifier fits in ten decimal digits.
const maxSupplierID int64 = 10_000_000_000

// idWidth is the zero-padded width of a stored identifier.
const idWidth = 10

// Supplier is the domain model for a supplier entity. The identifier is
// unset at construction and assigned later by the persistence layer via
// SetID; it is stored in its zero-padded decimal form. products is keyed
// by product identifier with last-write-wins semantics.
type Supplier struct {
	id       string
	name     string
	email    string
	address  string
	products map[string]*Product
}

// SupplierParams carries the constructor arguments for NewSupplier.
// ID is optional; when present it is range-validated but not stored,
// since the persistence layer owns identifier assignment.
type SupplierParams struct {
	Name     string
	ID       *int64
	Email    string
	Address  string
	Products []*Product
}

// NewSupplier validates the given fields and returns a fully
// constructed Supplier. It fails with ErrOutOfRange for an identifier
// outside (0, 1e10), with ErrMissingContactInfo when both email and
// address are empty, and with the AddProduct errors for an invalid
// initial product list. Initial products are inserted one by one, so
// duplicates by identifier resolve last-write-wins.
func NewSupplier(params SupplierParams) (*Supplier, error) {
	if params.ID != nil {
		if err := checkSupplierID(*params.ID); err != nil {
			return nil, err
		}
	}
	if params.Email == "" && params.Address == "" {
		return nil, e.NewValidationError(e.ErrMissingContactInfo, "contact", "at least one of email or address is required")
	}

	s := &Supplier{
		name:     params.Name,
		email:    params.Email,
		address:  params.Address,
		products: make(map[string]*Product),
	}
	if err := s.AddProducts(params.Products); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the zero-padded identifier, or the empty string while the
// persistence layer has not assigned one yet.
func (s *Supplier) ID() string {
	return s.id
}

// Name returns the supplier name.
func (s *Supplier) Name() string {
	return s.name
}

// Email returns the supplier email.
func (s *Supplier) Email() string {
	return s.email
}

// Address returns the supplier address.
func (s *Supplier) Address() string {
	return s.address
}

// Products returns the supplier's products keyed by product identifier.
// The returned map is the supplier's own; callers must not mutate it.
func (s *Supplier) Products() map[string]*Product {
	return s.products
}

// SetID assigns the supplier identifier. The persistence layer calls
// this with the database-generated value; the identifier is stored as a
// decimal string left-padded with zeros to ten characters. Fails with
// ErrOutOfRange outside the open interval (0, 1e10).
func (s *Supplier) SetID(id int64) error {
	if err := checkSupplierID(id); err != nil {
		return err
	}
	s.id = fmt.Sprintf("%0*d", idWidth, id)
	return nil
}

// SetName replaces the supplier name.
func (s *Supplier) SetName(name string) {
	s.name = name
}

// SetEmail replaces the supplier email. Email format is not validated.
// TODO: add an email format check once the contact workflows need it.
func (s *Supplier) SetEmail(email string) {
	s.email = email
}

// SetAddress replaces the supplier address.
func (s *Supplier) SetAddress(address string) {
	s.address = address
}

// Validate re-asserts the contact invariant: at least one of email or
// address must be non-empty. The invariant is enforced at construction
// and not re-checked by the setters, so callers that mutate contact
// fields can use this before handing the supplier off.
func (s *Supplier) Validate() error {
	if s.email == "" && s.address == "" {
		return e.NewValidationError(e.ErrMissingContactInfo, "contact", "at least one of email or address is required")
	}
	return nil
}

// AddProducts merges the given products into the supplier's catalog.
// Existing entries are kept; entries sharing an identifier are
// overwritten (last-write-wins). Products are inserted sequentially, so
// a failure aborts the remainder of the batch but keeps the products
// inserted before it.
func (s *Supplier) AddProducts(products []*Product) error {
	for _, p := range products {
		if err := s.AddProduct(p); err != nil {
			return err
		}
	}
	return nil
}

// AddProduct inserts a product into the catalog, overwriting any entry
// with the same identifier. Fails with ErrInvalidType for a nil product
// and with ErrMissingProductID for a product whose identifier has not
// been assigned; the catalog is unchanged on failure.
func (s *Supplier) AddProduct(p *Product) error {
	if p == nil {
		return e.NewValidationError(e.ErrInvalidType, "product", nil)
	}
	if p.ID() == "" {
		return e.NewValidationError(e.ErrMissingProductID, "product", p.Name())
	}
	s.products[p.ID()] = p
	return nil
}

// supplierJSON fixes the serialized field order: id, name, email,
// address, products.
type supplierJSON struct {
	ID       *string             `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Address  string              `json:"address"`
	Products map[string]*Product `json:"products"`
}

func (s *Supplier) view() supplierJSON {
	view := supplierJSON{
		Name:     s.name,
		Email:    s.email,
		Address:  s.address,
		Products: s.products,
	}
	if s.id != "" {
		view.ID = &s.id
	}
	return view
}

// MarshalJSON serializes the supplier with a fixed field order and a
// null identifier while unset. Product map keys are emitted in sorted
// order, so output is deterministic for a given state.
func (s *Supplier) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.view())
}

// UnmarshalJSON rehydrates a serialized supplier. The payload is
// trusted to come from MarshalJSON; invariants are not re-validated, so
// event consumers can decode states a caller reached through setters.
func (s *Supplier) UnmarshalJSON(data []byte) error {
	var view supplierJSON
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}
	s.id = ""
	if view.ID != nil {
		s.id = *view.ID
	}
	s.name = view.Name
	s.email = view.Email
	s.address = view.Address
	s.products = view.Products
	if s.products == nil {
		s.products = make(map[string]*Product)
	}
	return nil
}

// ToJSON returns the supplier as an indented JSON string.
func (s *Supplier) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s.view(), "", "    ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SupplierUpdate represents the fields that can be updated for a
// Supplier. Pointer types are used to allow partial updates.
type SupplierUpdate struct {
	// ID is the zero-padded identifier of the supplier to update.
	ID string
	// Name is the new name for the supplier.
	Name *string
	// Email is the new email.
	Email *string
	// Address is the new address.
	Address *string
}

func checkSupplierID(id int64) error {
	if id <= 0 || id >= maxSupplierID {
		return e.NewValidationError(e.ErrOutOfRange, "id", id)
	}
	return nil
}
