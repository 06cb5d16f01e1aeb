// Package catalog provides the in-memory product index queried by the
// dialogue engine. The index is built once at startup and read-only afterward.
package catalog

import (
	"fmt"
	"strings"

	boterrors "github.com/savastore/whatsbot/internal/errors"
	"github.com/shopspring/decimal"
)

// Product is an immutable catalog record. Name is its case-insensitive
// identity within the index.
type Product struct {
	Name          string
	Price         decimal.Decimal
	Stock         int32
	Specification string
}

// Index maps lowercased product names to products.
type Index struct {
	products map[string]Product
}

// NewIndex builds an index from the given records. Duplicate names
// (case-insensitive) and negative prices or stock are rejected.
func NewIndex(records []Product) (*Index, error) {
	products := make(map[string]Product, len(records))
	for _, p := range records {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog record with empty product name")
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q has negative price %s", p.Name, p.Price)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %q has negative stock %d", p.Name, p.Stock)
		}
		key := strings.ToLower(p.Name)
		if _, exists := products[key]; exists {
			return nil, fmt.Errorf("duplicate product name %q", p.Name)
		}
		products[key] = p
	}
	return &Index{products: products}, nil
}

// Lookup finds a product by its full name, case-insensitively.
// Returns ErrProductNotFound if no product has that name.
func (i *Index) Lookup(name string) (Product, error) {
	p, ok := i.products[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Product{}, boterrors.ErrProductNotFound
	}
	return p, nil
}

// Len returns the number of products in the index.
func (i *Index) Len() int {
	return len(i.products)
}
