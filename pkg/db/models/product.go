package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item scoped to a single company. Stock is kept
// as a plain counter; the guarded decrement in the sales repository is
// the only code path allowed to reduce it during a sale.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID     int64           `gorm:"column:company_id;not null;index;uniqueIndex:ux_products_company_barcode,priority:1"`
	Name          string          `gorm:"column:name;not null"`
	Barcode       string          `gorm:"column:barcode;not null;uniqueIndex:ux_products_company_barcode,priority:2"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	ImagePath     string          `gorm:"column:image_path"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
