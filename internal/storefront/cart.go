package storefront

import (
	"tinytreats/internal/model"
)

// CartItem is a product snapshot plus the quantity in the cart
type CartItem struct {
	Product  model.Product
	Quantity int
}

// Cart holds the transient session state of the ordering view. Identity
// is the product id: adding an existing id increments its quantity.
// There is deliberately no remove or decrement operation.
type Cart struct {
	items []CartItem
	open  bool
}

// NewCart creates an empty, closed cart
func NewCart() *Cart {
	return &Cart{}
}

// Add puts a product in the cart, incrementing the quantity when the
// product is already present, and opens the cart panel
func (c *Cart) Add(p model.Product) {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			c.open = true
			return
		}
	}
	c.items = append(c.items, CartItem{Product: p, Quantity: 1})
	c.open = true
}

// Items returns a copy of the current cart contents
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total is the exact sum of price times quantity across all items
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Count is the total number of units in the cart
func (c *Cart) Count() int {
	var count int
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Len is the number of distinct products in the cart
func (c *Cart) Len() int {
	return len(c.items)
}

// IsOpen reports whether the cart panel is showing
func (c *Cart) IsOpen() bool {
	return c.open
}

// Close hides the cart panel
func (c *Cart) Close() {
	c.open = false
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}
