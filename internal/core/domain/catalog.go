package domain

import (
	"fmt"
	"slices"
)

// A Catalog is the read-only product and news dataset.
//
// Products keep their declaration order, filtering relies on it.
type Catalog struct {
	products []Product
	byID     map[string]int
	news     []NewsItem
}

func NewCatalog(products []Product, news []NewsItem) (Catalog, error) {
	const op = "NewCatalog"

	byID := make(map[string]int, len(products))
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return Catalog{}, fmt.Errorf("%s: %w", op, err)
		}
		if _, ok := byID[p.ProductID]; ok {
			return Catalog{}, fmt.Errorf(
				"%s: %w: %q", op, ErrDuplicateProduct, p.ProductID,
			)
		}
		byID[p.ProductID] = i
	}

	return Catalog{
		products: slices.Clone(products),
		byID:     byID,
		news:     slices.Clone(news),
	}, nil
}

func (c Catalog) Products() []Product {
	return slices.Clone(c.products)
}

func (c Catalog) Product(productID string) (Product, bool) {
	i, ok := c.byID[productID]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c Catalog) News() []NewsItem {
	return slices.Clone(c.news)
}

func (c Catalog) Len() int {
	return len(c.products)
}
