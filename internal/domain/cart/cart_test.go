package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTotals asserts the derived totals match a recomputation from the
// raw lines.
func checkTotals(t *testing.T, c *Cart) {
	t.Helper()
	items := 0
	var price int64
	for _, line := range c.Lines {
		require.GreaterOrEqual(t, line.Quantity, 1, "a stored line must never have quantity < 1")
		items += line.Quantity
		price += line.UnitPrice * int64(line.Quantity)
	}
	assert.Equal(t, items, c.TotalItems())
	assert.Equal(t, price, c.TotalPrice())
}

func TestAddItem_MergesByProductID(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2))
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 3))

	require.Len(t, c.Lines, 1, "adding the same product twice must not create a second line")
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, int64(125000), c.TotalPrice())
	checkTotals(t, c)
}

func TestAddItem_RejectsInvalidInput(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.AddItem("p1", "Es Teh Manis", 5000, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem("p1", "Es Teh Manis", 5000, -2), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem("p1", "Es Teh Manis", -1, 1), ErrInvalidPrice)
	assert.True(t, c.IsEmpty(), "rejected operations must leave the cart unchanged")
}

func TestAddItem_KeepsPriceCapturedAtAdd(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem("p1", "Kopi Susu Gula Aren", 18000, 1))
	// Catalog price changed between adds; the existing line keeps the
	// price captured when it was first added.
	require.NoError(t, c.AddItem("p1", "Kopi Susu Gula Aren", 21000, 1))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(18000), c.Lines[0].UnitPrice)
	assert.Equal(t, int64(36000), c.TotalPrice())
}

func TestIncrementDecrement(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("p1", "Ayam Bakar Madu", 30000, 1))

	c.IncrementItem("p1")
	assert.Equal(t, 2, c.Lines[0].Quantity)
	checkTotals(t, c)

	c.DecrementItem("p1")
	assert.Equal(t, 1, c.Lines[0].Quantity)

	// Decrementing at quantity 1 removes the line; it never reaches 0.
	c.DecrementItem("p1")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestDecrementAbsentProduct_IsNoOp(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("p1", "Es Teh Manis", 5000, 2))

	assert.NotPanics(t, func() { c.DecrementItem("missing") })
	assert.NotPanics(t, func() { c.IncrementItem("missing") })
	assert.NotPanics(t, func() { c.RemoveItem("missing") })

	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, int64(10000), c.TotalPrice())
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 1))
	require.NoError(t, c.AddItem("p2", "Es Teh Manis", 5000, 3))

	c.RemoveItem("p1")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "p2", c.Lines[0].ProductID)
	checkTotals(t, c)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItems())
}

func TestTotals_HoldAfterEveryOperation(t *testing.T) {
	c := New()

	ops := []func(){
		func() { _ = c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2) },
		func() { _ = c.AddItem("p2", "Ayam Bakar Madu", 30000, 1) },
		func() { c.IncrementItem("p2") },
		func() { _ = c.AddItem("p3", "Es Teh Manis", 5000, 4) },
		func() { c.DecrementItem("p1") },
		func() { c.RemoveItem("p3") },
		func() { c.DecrementItem("p2") },
		func() { c.DecrementItem("p2") },
		func() { _ = c.AddItem("p1", "Nasi Goreng Spesial", 25000, 1) },
	}

	for _, op := range ops {
		op()
		checkTotals(t, c)
	}
}

func TestSnapshot_MatchesCartTotals(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2))
	require.NoError(t, c.AddItem("p2", "Es Teh Manis", 5000, 3))

	snap := c.Snapshot()

	assert.Equal(t, c.TotalPrice(), snap.GrandTotal)
	require.Len(t, snap.Lines, 2)

	var sum int64
	for _, line := range snap.Lines {
		assert.Equal(t, line.UnitPrice*int64(line.Quantity), line.LineTotal)
		sum += line.LineTotal
	}
	assert.Equal(t, snap.GrandTotal, sum)
}

func TestSnapshot_IsImmutable(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2))

	snap := c.Snapshot()
	c.IncrementItem("p1")
	c.Clear()

	// Mutating the cart after the snapshot must not change the order.
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, int64(50000), snap.GrandTotal)
}
