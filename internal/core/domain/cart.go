package domain

import (
	"errors"
	"math"
	"slices"
)

// ErrTotalOverflow is returned when a change would push the cart
// total price past what an int64 holds.
var ErrTotalOverflow = errors.New("cart total price overflows")

// ShippingFee is charged per order. Shipping is free.
const ShippingFee int64 = 0

// A LineKey identifies a cart line.
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

// A CartLine is one (product, size, color) selection with a quantity.
type CartLine struct {
	ProductID     string
	Name          string
	Price         int64
	OriginalPrice int64
	Image         string
	Category      Category
	Club          string
	Quantity      int
	Size          string
	Color         string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// A Cart is an ordered collection of lines, unique by [LineKey].
//
// Quantities have no upper bound of their own, but a change is rejected
// with [ErrTotalOverflow] when the total price would not fit an int64.
// Line prices are expected to be positive, as [NewCatalog] enforces.
//
// A Cart has a single owner and is not safe for concurrent use.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddToCart increments the quantity of the line matching
// (product, size, color) or appends a new line with quantity 1.
//
// Size and color are not checked against the product.
func (c *Cart) AddToCart(p Product, size, color string) (CartLine, error) {
	if _, ok := addSubtotal(c.TotalPrice(), p.Price, 1); !ok {
		return CartLine{}, ErrTotalOverflow
	}

	key := LineKey{ProductID: p.ProductID, Size: size, Color: color}
	if i := c.index(key); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i], nil
	}

	l := CartLine{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Category:      p.Category,
		Club:          p.Club,
		Quantity:      1,
		Size:          size,
		Color:         color,
	}
	c.lines = append(c.lines, l)
	return l, nil
}

// RemoveFromCart removes every line of the product, all variants included.
// It reports the number of removed lines.
func (c *Cart) RemoveFromCart(productID string) int {
	n := len(c.lines)
	c.lines = slices.DeleteFunc(c.lines, func(l CartLine) bool {
		return l.ProductID == productID
	})
	return n - len(c.lines)
}

func (c *Cart) RemoveLine(key LineKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

// UpdateQuantity sets quantity on every line of the product.
// A non-positive quantity removes them.
// It reports the number of affected lines.
func (c *Cart) UpdateQuantity(productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return c.RemoveFromCart(productID), nil
	}

	match := func(l CartLine) bool { return l.ProductID == productID }
	if !c.fitsQuantity(match, quantity) {
		return 0, ErrTotalOverflow
	}

	var n int
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			n++
		}
	}
	return n, nil
}

func (c *Cart) UpdateLineQuantity(key LineKey, quantity int) (bool, error) {
	if quantity <= 0 {
		return c.RemoveLine(key), nil
	}

	i := c.index(key)
	if i < 0 {
		return false, nil
	}

	match := func(l CartLine) bool { return l.Key() == key }
	if !c.fitsQuantity(match, quantity) {
		return false, ErrTotalOverflow
	}
	c.lines[i].Quantity = quantity
	return true, nil
}

func (c *Cart) ClearCart() {
	c.lines = nil
}

func (c *Cart) TotalItems() int {
	var total int
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums price * quantity using the current (discounted) price.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Lines() []CartLine {
	return slices.Clone(c.lines)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Summary() CartSummary {
	return CartSummary{
		Lines:       c.Lines(),
		TotalItems:  c.TotalItems(),
		TotalPrice:  c.TotalPrice(),
		ShippingFee: ShippingFee,
	}
}

// fitsQuantity reports whether the total price fits an int64 once the
// lines matched by match hold quantity.
func (c *Cart) fitsQuantity(match func(CartLine) bool, quantity int) bool {
	var (
		total int64
		ok    bool
	)
	for _, l := range c.lines {
		q := l.Quantity
		if match(l) {
			q = quantity
		}
		if total, ok = addSubtotal(total, l.Price, q); !ok {
			return false
		}
	}
	return true
}

// addSubtotal returns total + price*quantity, false on int64 overflow.
// total and quantity must not be negative.
func addSubtotal(total, price int64, quantity int) (int64, bool) {
	q := int64(quantity)
	if price > 0 && q > (math.MaxInt64-total)/price {
		return 0, false
	}
	return total + price*q, true
}

func (c *Cart) index(key LineKey) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.Key() == key
	})
}

type CartSummary struct {
	Lines       []CartLine
	TotalItems  int
	TotalPrice  int64
	ShippingFee int64
}

func (s CartSummary) GrandTotal() int64 {
	return s.TotalPrice + s.ShippingFee
}

func (s CartSummary) IsEmpty() bool {
	return len(s.Lines) == 0
}
