// Package catalog holds the fixed store and product catalogs a run simulates.
//
// A Catalog is built once, validated, and never mutated afterwards. Stores
// and products keep their insertion order for iteration and are indexed by
// id for O(1) lookup.
package catalog

import (
	"errors"
	"fmt"
)

// =============================================================================
// STORE
// =============================================================================

// Size scales per-store demand.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Factor is the demand multiplier for the store size.
func (s Size) Factor() float64 {
	switch s {
	case SizeSmall:
		return 0.5
	case SizeMedium:
		return 0.7
	case SizeLarge:
		return 1.0
	default:
		return 0
	}
}

func (s Size) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Store is a physical location with a baseline daily customer count.
type Store struct {
	ID          string `json:"id" yaml:"id"`
	Location    string `json:"location" yaml:"location"`
	Size        Size   `json:"size" yaml:"size"`
	BaseTraffic int    `json:"base_traffic" yaml:"base_traffic"`
}

// =============================================================================
// PRODUCT
// =============================================================================

// Seasonality selects the calendar signal that modulates a product's demand.
type Seasonality string

const (
	SeasonNone         Seasonality = "none"
	SeasonHolidays     Seasonality = "holidays"
	SeasonBackToSchool Seasonality = "back_to_school"
	SeasonSummer       Seasonality = "summer"
	SeasonWinter       Seasonality = "winter"
)

func (s Seasonality) Valid() bool {
	switch s {
	case SeasonNone, SeasonHolidays, SeasonBackToSchool, SeasonSummer, SeasonWinter:
		return true
	}
	return false
}

// Product is a sellable item. Price is the list price in dollars and Margin
// the fraction of revenue kept as profit.
type Product struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Category    string      `json:"category" yaml:"category"`
	Price       float64     `json:"price" yaml:"price"`
	Margin      float64     `json:"margin" yaml:"margin"`
	Seasonality Seasonality `json:"seasonality" yaml:"seasonality"`
}

// =============================================================================
// CATALOG
// =============================================================================

// ErrInvalidCatalog is the sentinel wrapped by every ValidationError.
var ErrInvalidCatalog = errors.New("invalid catalog")

// ValidationError describes the first catalog entry that failed validation.
type ValidationError struct {
	Kind   string // "store" or "product"
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid catalog: %s %q: %s", e.Kind, e.ID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCatalog
}

// Catalog is the ordered, id-indexed set of stores and products.
type Catalog struct {
	stores     []Store
	products   []Product
	storeIdx   map[string]int
	productIdx map[string]int
}

// New validates and indexes the given stores and products. The slices are
// copied, so later changes by the caller do not leak into the catalog.
func New(stores []Store, products []Product) (*Catalog, error) {
	if len(stores) == 0 {
		return nil, &ValidationError{Reason: "at least one store is required"}
	}
	if len(products) == 0 {
		return nil, &ValidationError{Reason: "at least one product is required"}
	}

	c := &Catalog{
		stores:     make([]Store, 0, len(stores)),
		products:   make([]Product, 0, len(products)),
		storeIdx:   make(map[string]int, len(stores)),
		productIdx: make(map[string]int, len(products)),
	}

	for _, s := range stores {
		if err := validateStore(s); err != nil {
			return nil, err
		}
		if _, dup := c.storeIdx[s.ID]; dup {
			return nil, &ValidationError{Kind: "store", ID: s.ID, Reason: "duplicate id"}
		}
		c.storeIdx[s.ID] = len(c.stores)
		c.stores = append(c.stores, s)
	}

	for _, p := range products {
		if p.Seasonality == "" {
			p.Seasonality = SeasonNone
		}
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := c.productIdx[p.ID]; dup {
			return nil, &ValidationError{Kind: "product", ID: p.ID, Reason: "duplicate id"}
		}
		c.productIdx[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

func validateStore(s Store) error {
	switch {
	case s.ID == "":
		return &ValidationError{Kind: "store", Reason: "empty id"}
	case !s.Size.Valid():
		return &ValidationError{Kind: "store", ID: s.ID, Reason: fmt.Sprintf("unknown size %q", s.Size)}
	case s.BaseTraffic <= 0:
		return &ValidationError{Kind: "store", ID: s.ID, Reason: "base_traffic must be positive"}
	}
	return nil
}

func validateProduct(p Product) error {
	switch {
	case p.ID == "":
		return &ValidationError{Kind: "product", Reason: "empty id"}
	case p.Price <= 0:
		return &ValidationError{Kind: "product", ID: p.ID, Reason: "price must be positive"}
	case p.Margin <= 0 || p.Margin >= 1:
		return &ValidationError{Kind: "product", ID: p.ID, Reason: "margin must be in (0, 1)"}
	case !p.Seasonality.Valid():
		return &ValidationError{Kind: "product", ID: p.ID, Reason: fmt.Sprintf("unknown seasonality %q", p.Seasonality)}
	}
	return nil
}

// Stores returns the stores in catalog order. The slice must not be modified.
func (c *Catalog) Stores() []Store { return c.stores }

// Products returns the products in catalog order. The slice must not be modified.
func (c *Catalog) Products() []Product { return c.products }

func (c *Catalog) NumStores() int   { return len(c.stores) }
func (c *Catalog) NumProducts() int { return len(c.products) }

// Store looks up a store by id.
func (c *Catalog) Store(id string) (Store, bool) {
	i, ok := c.storeIdx[id]
	if !ok {
		return Store{}, false
	}
	return c.stores[i], true
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.productIdx[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// ProductIDs returns product ids in catalog order.
func (c *Catalog) ProductIDs() []string {
	ids := make([]string, len(c.products))
	for i, p := range c.products {
		ids[i] = p.ID
	}
	return ids
}
