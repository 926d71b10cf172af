package cart

import (
	"errors"
	"fmt"

	"ministore/core/catalog"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// Line is a product snapshot and a quantity in [1, snapshot stock].
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// Cart holds at most one line per product. Totals are always derived.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges p into the cart. The line snapshot is refreshed from p and the
// quantity capped at p.Stock.
func (c *Cart) Add(p catalog.Product) error {
	if p.Stock <= 0 {
		return fmt.Errorf("%w: %d", catalog.ErrOutOfStock, p.ID)
	}
	for i := range c.Lines {
		if c.Lines[i].ID == p.ID {
			q := c.Lines[i].Quantity + 1
			if q > p.Stock {
				q = p.Stock
			}
			c.Lines[i] = Line{Product: p, Quantity: q}
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: 1})
	return nil
}

// SetQuantity clamps q to the stock captured in the line; a result of zero
// or less removes the line.
func (c *Cart) SetQuantity(productID, q int) error {
	for i := range c.Lines {
		if c.Lines[i].ID != productID {
			continue
		}
		if q > c.Lines[i].Stock {
			q = c.Lines[i].Stock
		}
		if q <= 0 {
			c.Remove(productID)
			return nil
		}
		c.Lines[i].Quantity = q
		return nil
	}
	return fmt.Errorf("%w: %d", ErrLineNotFound, productID)
}

func (c *Cart) Remove(productID int) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) Total() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Summary is the read model returned to clients.
type Summary struct {
	Lines     []Line `json:"lines"`
	Total     int    `json:"total"`
	ItemCount int    `json:"item_count"`
}

func (c Cart) Summary() Summary {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return Summary{Lines: lines, Total: c.Total(), ItemCount: c.ItemCount()}
}
