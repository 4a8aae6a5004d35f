package domain

import (
	"errors"
	"fmt"
)

// MatchAll is the criterion value that excludes nothing.
// The empty string is treated the same way.
const MatchAll = "all"

var ErrUnknownPriceBracket = errors.New("unknown price bracket")

type PriceBracket string

const (
	PriceAny       PriceBracket = MatchAll
	PriceUnder500K PriceBracket = "under-500k"
	Price500KTo1M  PriceBracket = "500k-1m"
	PriceOver1M    PriceBracket = "over-1m"
)

const (
	priceLowBound  int64 = 500_000
	priceHighBound int64 = 1_000_000
)

func ParsePriceBracket(s string) (PriceBracket, error) {
	const op = "ParsePriceBracket"

	switch b := PriceBracket(s); b {
	case "", PriceAny:
		return PriceAny, nil
	case PriceUnder500K, Price500KTo1M, PriceOver1M:
		return b, nil
	default:
		return "", fmt.Errorf("%s: %w: %q", op, ErrUnknownPriceBracket, s)
	}
}

func (b PriceBracket) IsMatchAll() bool {
	return b == "" || b == PriceAny
}

// Contains reports whether price falls in the bracket.
// The middle bracket is inclusive on both ends.
func (b PriceBracket) Contains(price int64) bool {
	switch b {
	case PriceUnder500K:
		return price < priceLowBound
	case Price500KTo1M:
		return price >= priceLowBound && price <= priceHighBound
	case PriceOver1M:
		return price > priceHighBound
	default:
		return true
	}
}

// FilterCriteria narrows the visible products.
// Every field defaults to match-all.
type FilterCriteria struct {
	Category string
	Club     string
	Price    PriceBracket
}

func (c FilterCriteria) IsMatchAll() bool {
	return isMatchAll(c.Category) && isMatchAll(c.Club) && c.Price.IsMatchAll()
}

func (c *FilterCriteria) Reset() {
	*c = FilterCriteria{}
}

func (c FilterCriteria) Match(p Product) bool {
	if !isMatchAll(c.Category) && string(p.Category) != c.Category {
		return false
	}
	if !isMatchAll(c.Club) && p.Club != c.Club {
		return false
	}
	return c.Price.Contains(p.Price)
}

// FilterProducts returns the products matching c in their original order.
func FilterProducts(ps []Product, c FilterCriteria) []Product {
	filtered := make([]Product, 0, len(ps))
	for _, p := range ps {
		if c.Match(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func isMatchAll(v string) bool {
	return v == "" || v == MatchAll
}

type (
	FilterOption struct {
		Value string
		Label string
	}

	FilterOptions struct {
		Categories    []FilterOption
		Clubs         []FilterOption
		PriceBrackets []FilterOption
	}
)

// DefaultFilterOptions lists the selectable criteria of the product page.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Categories: []FilterOption{
			{MatchAll, "Tất cả"},
			{string(CategoryJersey), "Áo đấu"},
			{string(CategoryShoes), "Giày bóng đá"},
			{string(CategoryAccessories), "Phụ kiện"},
		},
		Clubs: []FilterOption{
			{MatchAll, "Tất cả"},
			{"manchester-united", "Manchester United"},
			{"real-madrid", "Real Madrid"},
			{"barcelona", "Barcelona"},
			{"chelsea", "Chelsea"},
			{"brazil", "Brazil"},
			{"argentina", "Argentina"},
			{"nike", "Nike"},
			{"adidas", "Adidas"},
			{"puma", "Puma"},
			{"fifa", "FIFA"},
		},
		PriceBrackets: []FilterOption{
			{string(PriceAny), "Tất cả"},
			{string(PriceUnder500K), "Dưới 500.000đ"},
			{string(Price500KTo1M), "500.000đ - 1.000.000đ"},
			{string(PriceOver1M), "Trên 1.000.000đ"},
		},
	}
}
