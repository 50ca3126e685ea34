package cart

import (
	"testing"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(id int64, price string) Snapshot {
	return Snapshot{TelevisionID: id, Name: "Brand", Model: "M-" + price, Price: decimal.RequireFromString(price)}
}

func TestAddInsertsThenIncrements(t *testing.T) {
	c := Cart{}.Clear()

	c, err := c.Add(snapshot(7, "100.00"), 2, true)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, "M-100.00", c.Lines[0].Model)

	c, err = c.Add(snapshot(7, "100.00"), 2, true)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity(7))

	_, err = c.Add(snapshot(7, "100.00"), 2, true)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStockExceeded), "got %v", err)
	assert.Equal(t, 2, c.Quantity(7))
}

func TestAddOutOfStock(t *testing.T) {
	c := Cart{}.Clear()

	_, err := c.Add(snapshot(1, "10.00"), 0, true)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeOutOfStock))

	_, err = c.Add(snapshot(1, "10.00"), 0, false)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeOutOfStock))
	assert.True(t, c.IsEmpty())
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	c, err := Cart{}.Add(snapshot(1, "10.00"), 5, true)
	require.NoError(t, err)

	next, err := c.Add(snapshot(1, "10.00"), 5, true)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Quantity(1))
	assert.Equal(t, 2, next.Quantity(1))

	removed := next.Remove(1)
	assert.Equal(t, 2, next.Quantity(1))
	assert.Equal(t, 1, removed.Quantity(1))
}

func TestRemoveDeletesLineAtZeroAndIsIdempotent(t *testing.T) {
	c, err := Cart{}.Add(snapshot(5, "50.00"), 3, true)
	require.NoError(t, err)
	c, err = c.Add(snapshot(6, "60.00"), 3, true)
	require.NoError(t, err)

	c = c.Remove(5)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(6), c.Lines[0].TelevisionID)

	again := c.Remove(5)
	assert.Equal(t, c.View(), again.View())
}

func TestViewTotalsKeepOrder(t *testing.T) {
	c := Cart{}.Clear()
	var err error
	for _, step := range []struct {
		id    int64
		price string
	}{{9, "19.99"}, {3, "0.01"}, {9, "19.99"}} {
		c, err = c.Add(snapshot(step.id, step.price), 10, true)
		require.NoError(t, err)
	}

	view := c.View()
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(9), view.Lines[0].TelevisionID)
	assert.Equal(t, int64(3), view.Lines[1].TelevisionID)
	assert.Equal(t, 3, view.TotalItemCount)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("39.99")), "total %s", view.TotalPrice)

	cleared := c.Clear().View()
	assert.Empty(t, cleared.Lines)
	assert.True(t, cleared.TotalPrice.IsZero())
	assert.Zero(t, cleared.TotalItemCount)
}

func TestCartNeverExceedsStock(t *testing.T) {
	const stockQty = 3
	c := Cart{}.Clear()
	ops := []bool{true, true, false, true, true, true, false, false, true, true, true}
	for _, add := range ops {
		if add {
			if next, err := c.Add(snapshot(1, "1.00"), stockQty, true); err == nil {
				c = next
			}
		} else {
			c = c.Remove(1)
		}
		require.LessOrEqual(t, c.Quantity(1), stockQty)
	}
	assert.Equal(t, stockQty, c.Quantity(1))
}
