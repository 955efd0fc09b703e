package models

import "github.com/shopspring/decimal"

// TransactionItem snapshots one cart line at commit time. UnitPrice is
// copied from the product so later price changes never rewrite history.
type TransactionItem struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID int64           `gorm:"column:transaction_id;not null;index"`
	ProductID     int64           `gorm:"column:product_id;not null;index"`
	ProductName   string          `gorm:"column:product_name;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}
