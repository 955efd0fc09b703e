package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/pricing"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

// CommitInput is the payload closing out a sale.
type CommitInput struct {
	Adjustments pricing.Adjustments `json:"adjustments"`
	Received    decimal.Decimal     `json:"received" validate:"required"`
}

// ReceiptLine mirrors one committed sale line.
type ReceiptLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Receipt is the terminal-facing record of a committed sale.
type Receipt struct {
	TransactionID int64          `json:"transaction_id"`
	CreatedAt     time.Time      `json:"created_at"`
	Lines         []ReceiptLine  `json:"lines"`
	Totals        pricing.Totals `json:"totals"`
}

func receiptFrom(record *models.Transaction, totals pricing.Totals) *Receipt {
	lines := make([]ReceiptLine, 0, len(record.Items))
	for _, item := range record.Items {
		lines = append(lines, ReceiptLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return &Receipt{
		TransactionID: record.ID,
		CreatedAt:     record.CreatedAt,
		Lines:         lines,
		Totals:        totals,
	}
}
