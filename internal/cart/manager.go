package cart

import (
	"errors"
	"fmt"

	"maasai-craft/internal/models"
)

const (
	// FreeShippingThreshold is strict: a subtotal of exactly 5000 still pays shipping.
	FreeShippingThreshold int64 = 5000
	FlatShippingFee       int64 = 300

	// MaxQuantityPerLine caps a single line. Together with MaxPrice it keeps
	// every total far inside int64.
	MaxQuantityPerLine = 100
	// MaxPrice is the highest unit price, in KES, a product may carry.
	MaxPrice int64 = 10_000_000
)

var ErrQuantityLimit = errors.New("quantity limit exceeded")

// Line represents one (product, size) pairing in the cart
type Line struct {
	Product  models.Product `json:"product"`
	Size     string         `json:"size"`
	Quantity int            `json:"quantity"`
}

// Total is price times quantity.
func (l Line) Total() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Totals is the derived money view of a cart.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Cart holds lines in insertion order. The zero value is an empty cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

func (c *Cart) find(id int, size string) int {
	for i, l := range c.Lines {
		if l.Product.ID == id && l.Size == size {
			return i
		}
	}
	return -1
}

// Add puts one unit of product in the given size into the cart, merging with
// an existing line for the same pair.
func (c *Cart) Add(p models.Product, size string) error {
	if i := c.find(p.ID, size); i >= 0 {
		if c.Lines[i].Quantity >= MaxQuantityPerLine {
			return fmt.Errorf("%w: at most %d per line", ErrQuantityLimit, MaxQuantityPerLine)
		}
		c.Lines[i].Quantity++
		return nil
	}
	c.Lines = append(c.Lines, Line{Product: p, Size: size, Quantity: 1})
	return nil
}

// Remove deletes the line for (id, size) if there is one.
func (c *Cart) Remove(id int, size string) {
	i := c.find(id, size)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// UpdateQuantity sets the absolute quantity of a line. Zero or less removes it.
// Quantities above MaxQuantityPerLine are refused and leave the cart as it was.
func (c *Cart) UpdateQuantity(id int, size string, quantity int) error {
	if quantity <= 0 {
		c.Remove(id, size)
		return nil
	}
	if quantity > MaxQuantityPerLine {
		return fmt.Errorf("%w: %d requested, at most %d per line", ErrQuantityLimit, quantity, MaxQuantityPerLine)
	}
	if i := c.find(id, size); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
	return nil
}

// Line returns the line for (id, size).
func (c *Cart) Line(id int, size string) (Line, bool) {
	i := c.find(id, size)
	if i < 0 {
		return Line{}, false
	}
	return c.Lines[i], true
}

// Totals calculates subtotal, shipping and total
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, l := range c.Lines {
		subtotal += l.Total()
	}
	shipping := FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	return Totals{Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping}
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Clear() {
	c.Lines = nil
}
