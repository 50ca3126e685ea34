package cart

import (
	"github.com/angelmondragon/tvshop-backend/internal/stock"
	"github.com/shopspring/decimal"
)

// Snapshot is the catalog data copied into a line when it is first added.
type Snapshot struct {
	TelevisionID int64
	Name         string
	Model        string
	Price        decimal.Decimal
}

// Line is one television held in a cart.
type Line struct {
	TelevisionID int64           `json:"television_id"`
	Quantity     int             `json:"quantity"`
	Name         string          `json:"name"`
	Model        string          `json:"model"`
	Price        decimal.Decimal `json:"price"`
}

// Subtotal returns price × quantity for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of lines keyed by television. Operations return a new
// value and leave the receiver untouched.
type Cart struct {
	Lines []Line `json:"lines"`
}

// View is the read model of a cart.
type View struct {
	Lines          []Line          `json:"lines"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalItemCount int             `json:"total_item_count"`
}

func (c Cart) index(tvID int64) int {
	for i, line := range c.Lines {
		if line.TelevisionID == tvID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Add puts one more unit of the snapshot's television in the cart. stockQty is the
// quantity currently on the stock ledger and stocked reports whether an entry exists.
func (c Cart) Add(s Snapshot, stockQty int, stocked bool) (Cart, error) {
	i := c.index(s.TelevisionID)
	if i < 0 {
		if !stocked || stockQty < 1 {
			return c, stock.ErrOutOfStock(s.TelevisionID)
		}
		next := c.clone()
		next.Lines = append(next.Lines, Line{
			TelevisionID: s.TelevisionID,
			Quantity:     1,
			Name:         s.Name,
			Model:        s.Model,
			Price:        s.Price,
		})
		return next, nil
	}

	requested := c.Lines[i].Quantity + 1
	if !stocked || requested > stockQty {
		available := 0
		if stocked {
			available = stockQty
		}
		return c, stock.ErrStockExceeded(s.TelevisionID, requested, available)
	}
	next := c.clone()
	next.Lines[i].Quantity = requested
	return next, nil
}

// Remove takes one unit of tvID out of the cart, dropping the line at zero.
// Removing an absent television is a no-op.
func (c Cart) Remove(tvID int64) Cart {
	i := c.index(tvID)
	if i < 0 {
		return c
	}
	next := c.clone()
	if next.Lines[i].Quantity > 1 {
		next.Lines[i].Quantity--
		return next
	}
	next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	return next
}

// View computes totals over the lines.
func (c Cart) View() View {
	view := View{Lines: make([]Line, len(c.Lines)), TotalPrice: decimal.Zero}
	copy(view.Lines, c.Lines)
	for _, line := range c.Lines {
		view.TotalPrice = view.TotalPrice.Add(line.Subtotal())
		view.TotalItemCount += line.Quantity
	}
	return view
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{Lines: []Line{}}
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quantity returns how many units of tvID the cart holds.
func (c Cart) Quantity(tvID int64) int {
	if i := c.index(tvID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}
