package models

// CartLine is one product+quantity pairing in a cart. The product fields are
// a snapshot taken when the line was added, so a later catalog price change
// does not silently reprice an open cart.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"price"`
	ImageURL    string  `json:"imgUrl,omitempty"`
	Quantity    int     `json:"qty"`
}

// Cart is the session's in-progress selection. At most one line exists per
// product id, and a line's quantity is always >= 1 while the line is present.
type Cart struct {
	lines []CartLine
}

// Add inserts a line with quantity 1 for the product, unless a line for the
// same product id already exists, in which case it is a no-op. Quantity
// changes are explicit via Increment/Decrement.
func (c *Cart) Add(p Product) bool {
	for _, line := range c.lines {
		if line.ProductID == p.ID {
			return false
		}
	}
	c.lines = append(c.lines, CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		ImageURL:    p.ImageURL,
		Quantity:    1,
	})
	return true
}

// Increment raises the quantity of the matching line by one. Absent ids are
// a silent no-op.
func (c *Cart) Increment(productID string) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			return true
		}
	}
	return false
}

// Decrement lowers the quantity of the matching line by one. When the
// quantity would reach zero the line is removed entirely; a line never
// persists at quantity <= 0. Absent ids are a silent no-op.
func (c *Cart) Decrement(productID string) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.lines[i].Quantity <= 1 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity--
			}
			return true
		}
	}
	return false
}

// Clear empties the cart. Called after a confirmed order placement and at
// logout; the cart object itself stays alive for the session.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Quantity returns the quantity for a product id, or 0 when absent.
func (c *Cart) Quantity(productID string) int {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart's lines, safe for the caller to hold
// across later cart mutations.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
