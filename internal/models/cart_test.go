package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dessertlab/internal/models"
)

func sampleProduct(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: price}
}

func TestCart_AddIsIdempotent(t *testing.T) {
	var cart models.Cart
	p := sampleProduct("p1", "Lemon Tart", 180)

	assert.True(t, cart.Add(p))
	assert.False(t, cart.Add(p), "second add of the same product must be a no-op")

	lines := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity, "quantity must stay 1 after a repeated add")
}

func TestCart_AddSnapshotsProduct(t *testing.T) {
	var cart models.Cart
	p := sampleProduct("p1", "Lemon Tart", 180)
	cart.Add(p)

	// A later catalog price change must not reprice the open cart.
	p.Price = 999
	lines := cart.Lines()
	assert.Equal(t, 180.0, lines[0].UnitPrice)
}

func TestCart_IncrementAndDecrement(t *testing.T) {
	var cart models.Cart
	cart.Add(sampleProduct("p1", "Brownie", 120))

	assert.True(t, cart.Increment("p1"))
	assert.True(t, cart.Increment("p1"))
	assert.Equal(t, 3, cart.Quantity("p1"))

	assert.True(t, cart.Decrement("p1"))
	assert.Equal(t, 2, cart.Quantity("p1"))
}

func TestCart_IncrementAbsentIsSilentNoop(t *testing.T) {
	var cart models.Cart
	assert.False(t, cart.Increment("missing"))
	assert.False(t, cart.Decrement("missing"))
	assert.True(t, cart.IsEmpty())
}

func TestCart_DecrementToZeroRemovesLine(t *testing.T) {
	var cart models.Cart
	cart.Add(sampleProduct("p1", "Croissant", 75))
	cart.Increment("p1")

	// Decrement until the line is gone; it must never persist at qty <= 0.
	for i := 0; i < 5; i++ {
		cart.Decrement("p1")
		for _, line := range cart.Lines() {
			assert.GreaterOrEqual(t, line.Quantity, 1, "a cart line must never hold quantity <= 0")
		}
	}
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Quantity("p1"))
}

func TestCart_Clear(t *testing.T) {
	var cart models.Cart
	cart.Add(sampleProduct("p1", "Croissant", 75))
	cart.Add(sampleProduct("p2", "Baklava", 260))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.Lines())

	// The cart object stays usable after clearing.
	assert.True(t, cart.Add(sampleProduct("p1", "Croissant", 75)))
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	var cart models.Cart
	cart.Add(sampleProduct("p1", "Croissant", 75))

	lines := cart.Lines()
	lines[0].Quantity = 42
	assert.Equal(t, 1, cart.Quantity("p1"))
}
