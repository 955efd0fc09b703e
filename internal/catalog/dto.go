package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

// ProductDTO is the catalog view handed to the API layer.
type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	ImagePath     string          `json:"image_path,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		ImagePath:     p.ImagePath,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// CreateProductInput captures the payload for registering a product.
type CreateProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Barcode       string          `json:"barcode" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	ImagePath     string          `json:"image_path"`
}

func (in CreateProductInput) toModel(companyID int64) *models.Product {
	return &models.Product{
		CompanyID:     companyID,
		Name:          in.Name,
		Barcode:       in.Barcode,
		UnitPrice:     in.UnitPrice,
		StockQuantity: in.StockQuantity,
		ImagePath:     in.ImagePath,
	}
}

// UpdateProductInput captures mutable product fields. Nil means leave as-is.
type UpdateProductInput struct {
	Name      *string          `json:"name"`
	Barcode   *string          `json:"barcode"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	ImagePath *string          `json:"image_path"`
}

// RestockInput captures a manual stock adjustment.
type RestockInput struct {
	Delta int `json:"delta" validate:"required"`
}
