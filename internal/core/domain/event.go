package domain

import "time"

type CartEventType string

const (
	CartItemAdded       CartEventType = "item_added"
	CartItemRemoved     CartEventType = "item_removed"
	CartQuantityUpdated CartEventType = "quantity_updated"
	CartCleared         CartEventType = "cart_cleared"
)

// A CartEvent describes one applied cart mutation.
//
// Quantity is the resulting line quantity, zero for removals.
// Size and Color are empty for product-wide changes.
type CartEvent struct {
	SessionID  string
	Type       CartEventType
	ProductID  string
	Size       string
	Color      string
	Quantity   int
	TotalItems int
	TotalPrice int64
	OccurredAt time.Time
}
