package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Adjustments carries the operator-entered discount and surcharge
// knobs. Percentages apply to the subtotal, not to each other.
type Adjustments struct {
	DiscountFixed    decimal.Decimal `json:"discount_fixed"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	SurchargeFixed   decimal.Decimal `json:"surcharge_fixed"`
	SurchargePercent decimal.Decimal `json:"surcharge_percent"`
}

func (a Adjustments) validate() error {
	for _, v := range []decimal.Decimal{a.DiscountFixed, a.DiscountPercent, a.SurchargeFixed, a.SurchargePercent} {
		if v.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "adjustments must not be negative")
		}
	}
	return nil
}

// Totals is the fully computed price breakdown for a sale.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Surcharge decimal.Decimal `json:"surcharge"`
	NetTotal  decimal.Decimal `json:"net_total"`
	Received  decimal.Decimal `json:"received"`
	ChangeDue decimal.Decimal `json:"change_due"`
}

// ComputeTotals derives the sale totals from the cart subtotal, the
// operator adjustments and the cash received. Every figure is rounded
// to two decimal places.
func ComputeTotals(subtotal decimal.Decimal, adj Adjustments, received decimal.Decimal) (Totals, error) {
	if subtotal.IsNegative() {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}
	if err := adj.validate(); err != nil {
		return Totals{}, err
	}
	if received.IsNegative() {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "received amount must not be negative")
	}

	discount := adj.DiscountFixed.Add(subtotal.Mul(adj.DiscountPercent).Div(oneHundred)).Round(2)
	surcharge := adj.SurchargeFixed.Add(subtotal.Mul(adj.SurchargePercent).Div(oneHundred)).Round(2)
	net := subtotal.Sub(discount).Add(surcharge).Round(2)

	return Totals{
		Subtotal:  subtotal.Round(2),
		Discount:  discount,
		Surcharge: surcharge,
		NetTotal:  net,
		Received:  received.Round(2),
		ChangeDue: received.Sub(net).Round(2),
	}, nil
}

// Payable reports whether the received cash actually settles the sale:
// money changed hands and it covers the net total.
func (t Totals) Payable() bool {
	return t.Received.IsPositive() && !t.ChangeDue.IsNegative()
}
