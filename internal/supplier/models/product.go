package models

import (
	"encoding/json"

	e "github.com/vendora/supplier/internal/supplier/errors"
)

// Product is the catalog record a supplier offers. Its identifier is
// assigned by the persistence layer; until then the product cannot be
// attached to a supplier.
type Product struct {
	id   string
	name string
}

// NewProduct returns a Product with no identifier yet.
func NewProduct(name string) *Product {
	return &Product{name: name}
}

// ID returns the product identifier, or the empty string while unset.
func (p *Product) ID() string {
	return p.id
}

// Name returns the product name.
func (p *Product) Name() string {
	return p.name
}

// SetID assigns the identifier. The persistence layer calls this once
// the product has been stored.
func (p *Product) SetID(id string) error {
	if id == "" {
		return e.NewValidationError(e.ErrMissingProductID, "id", id)
	}
	p.id = id
	return nil
}

type productJSON struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// MarshalJSON serializes the product as {id, name}, with a null id
// while unset.
func (p *Product) MarshalJSON() ([]byte, error) {
	view := productJSON{Name: p.name}
	if p.id != "" {
		view.ID = &p.id
	}
	return json.Marshal(view)
}

// UnmarshalJSON rehydrates a serialized product. No validation is
// applied; the payload is trusted to come from MarshalJSON.
func (p *Product) UnmarshalJSON(data []byte) error {
	var view productJSON
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}
	p.name = view.Name
	p.id = ""
	if view.ID != nil {
		p.id = *view.ID
	}
	return nil
}
