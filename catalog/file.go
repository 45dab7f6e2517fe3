package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a catalog override:
//
//	stores:
//	  - {id: store_001, location: New York, size: large, base_traffic: 1000}
//	products:
//	  - {id: Elec_001, name: Smartphone, category: Electronics, price: 699, margin: 0.15, seasonality: holidays}
//
// An omitted section falls back to the built-in table for that section.
type File struct {
	Stores   []Store   `yaml:"stores"`
	Products []Product `yaml:"products"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w: %w", ErrInvalidCatalog, err)
	}
	if len(f.Stores) == 0 {
		f.Stores = DefaultStores()
	}
	if len(f.Products) == 0 {
		f.Products = DefaultProducts()
	}
	return New(f.Stores, f.Products)
}

// LoadFile reads a YAML catalog from path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}
