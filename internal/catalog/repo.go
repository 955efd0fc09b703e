package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

// ProductRepository exposes persistence operations for the product catalog.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, companyID, id int64) (*models.Product, error)
	FindByBarcode(ctx context.Context, companyID int64, barcode string) (*models.Product, error)
	ListByCompany(ctx context.Context, companyID int64) ([]models.Product, error)
	AdjustStock(ctx context.Context, companyID, id int64, delta int) (int64, error)
}

// Repository is the gorm-backed ProductRepository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID returns a product restricted to the provided company.
func (r *Repository) FindByID(ctx context.Context, companyID, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByBarcode looks a product up by its scanned barcode.
func (r *Repository) FindByBarcode(ctx context.Context, companyID int64, barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND barcode = ?", companyID, barcode).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCompany returns the company's products ordered by name.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustStock applies a stock delta guarded so the counter never goes
// negative. Returns the number of rows updated: zero means the product
// is missing or the decrement would overdraw the stock.
func (r *Repository) AdjustStock(ctx context.Context, companyID, id int64, delta int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE products
		 SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND company_id = ? AND stock_quantity + ? >= 0`,
		delta, id, companyID, delta,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
