// internal/domain/cart/cart.go
package cart

import (
	"errors"
	"time"
)

var (
	// ErrInvalidQuantity is returned when adding less than one unit
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPrice is returned when adding an item with a negative price
	ErrInvalidPrice = errors.New("unit price cannot be negative")
)

// Line is a single cart line. There is at most one line per product;
// quantity is always >= 1 (a line that would drop to 0 is removed).
type Line struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"` // Price at time of add
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart aggregates the selected products for one session. Totals are
// always derived from the current lines, never cached.
type Cart struct {
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnapshotLine is one line of an immutable checkout order
type SnapshotLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// Snapshot is the immutable order handed to checkout. GrandTotal equals
// the cart's TotalPrice at the instant the snapshot was taken.
type Snapshot struct {
	Lines      []SnapshotLine `json:"lines"`
	GrandTotal int64          `json:"grand_total"`
	TakenAt    time.Time      `json:"taken_at"`
}

// New creates an empty cart
func New() *Cart {
	now := time.Now().UTC()
	return &Cart{
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds quantity units of a product. If a line for the product
// already exists its quantity is increased; the unit price captured at
// first add is kept so an in-progress cart stays stable when the
// catalog price changes.
func (c *Cart) AddItem(productID, name string, unitPrice int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return ErrInvalidPrice
	}

	if line := c.find(productID); line != nil {
		line.Quantity += quantity
		c.touch()
		return nil
	}

	c.Lines = append(c.Lines, Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	})
	c.touch()
	return nil
}

// IncrementItem increases the quantity of an existing line by one.
// Incrementing an absent product is a no-op.
func (c *Cart) IncrementItem(productID string) {
	if line := c.find(productID); line != nil {
		line.Quantity++
		c.touch()
	}
}

// DecrementItem decreases the quantity of an existing line by one.
// A line at quantity 1 is removed entirely; an absent product is a no-op.
func (c *Cart) DecrementItem(productID string) {
	line := c.find(productID)
	if line == nil {
		return
	}
	if line.Quantity <= 1 {
		c.RemoveItem(productID)
		return
	}
	line.Quantity--
	c.touch()
}

// RemoveItem deletes a line unconditionally if present
func (c *Cart) RemoveItem(productID string) {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItems returns the sum of all line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price times quantity over all lines
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// Snapshot returns an immutable checkout order computed fresh from the
// current lines, so the displayed total and the charged total cannot
// drift apart.
func (c *Cart) Snapshot() Snapshot {
	lines := make([]SnapshotLine, len(c.Lines))
	var grandTotal int64
	for i, line := range c.Lines {
		lineTotal := line.UnitPrice * int64(line.Quantity)
		lines[i] = SnapshotLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		}
		grandTotal += lineTotal
	}
	return Snapshot{
		Lines:      lines,
		GrandTotal: grandTotal,
		TakenAt:    time.Now().UTC(),
	}
}

func (c *Cart) find(productID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
