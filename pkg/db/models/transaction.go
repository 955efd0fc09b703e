package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of a completed sale. Totals are
// stored as computed at commit time; they are never recalculated from
// the items afterwards.
type Transaction struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID int64           `gorm:"column:company_id;not null;index"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null"`
	Surcharge decimal.Decimal `gorm:"column:surcharge;type:numeric(12,2);not null"`
	NetTotal  decimal.Decimal `gorm:"column:net_total;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
