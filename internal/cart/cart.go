package cart

import (
	"github.com/shopspring/decimal"
)

// Line is a single product entry in a terminal cart. LineTotal is always
// derived from price and quantity, never stored independently.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Barcode   string          `json:"barcode"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImagePath string          `json:"image_path,omitempty"`
}

// Total returns the line's price contribution.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Cart is the in-progress sale for one terminal session.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Subtotal sums every line total.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total.Round(2)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// lineIndexByProduct returns the index of the line holding productID,
// or -1 when the product is not in the cart.
func (c *Cart) lineIndexByProduct(productID int64) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
