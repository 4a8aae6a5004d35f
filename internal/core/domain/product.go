package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

var (
	ErrInvalidProduct   = errors.New("invalid product")
	ErrDuplicateProduct = errors.New("duplicate product id")
)

type Category string

const (
	CategoryJersey      Category = "jersey"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

type (
	// A Product is an immutable catalog entry.
	//
	// Price and OriginalPrice are in the smallest currency unit (VND).
	// Zero OriginalPrice means the product is not discounted.
	Product struct {
		ProductID     string
		Name          string
		Price         int64
		OriginalPrice int64
		Image         string
		Category      Category
		Club          string
		Sizes         []string
		Colors        []string
		Description   string
		Rating        float64
		Reviews       int
	}

	NewsItem struct {
		NewsID   string
		Title    string
		Excerpt  string
		Image    string
		Date     time.Time
		Category string
	}
)

func (p Product) HasDiscount() bool {
	return p.OriginalPrice > 0
}

// DiscountPercent returns the rounded discount relative to OriginalPrice,
// or 0 for products without one.
func (p Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	ratio := float64(p.Price) / float64(p.OriginalPrice)
	return int(math.Round((1 - ratio) * 100))
}

func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

func (p Product) DefaultColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

func (p Product) Validate() error {
	const op = "Product.Validate"

	var errs []error
	if p.ProductID == "" {
		errs = append(errs, errors.New("empty product id"))
	}
	if p.Price < 0 {
		errs = append(errs, errors.New("negative price"))
	}
	if p.HasDiscount() && p.OriginalPrice <= p.Price {
		errs = append(errs, errors.New("original price must exceed price"))
	}
	if len(p.Sizes) == 0 {
		errs = append(errs, errors.New("no sizes"))
	}
	if len(p.Colors) == 0 {
		errs = append(errs, errors.New("no colors"))
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, errors.New("rating out of range"))
	}
	if p.Reviews < 0 {
		errs = append(errs, errors.New("negative reviews"))
	}

	if len(errs) != 0 {
		return fmt.Errorf(
			"%s: %w %q: %w", op, ErrInvalidProduct, p.ProductID, errors.Join(errs...),
		)
	}
	return nil
}
