package sales

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

// TransactionRepository exposes persistence operations for committed sales.
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	CreateTransaction(ctx context.Context, record *models.Transaction) (*models.Transaction, error)
	CreateItems(ctx context.Context, items []models.TransactionItem) error
	DecrementStock(ctx context.Context, companyID, productID int64, quantity int) (int64, error)
	FindByID(ctx context.Context, companyID, id int64) (*models.Transaction, error)
	ListByCompany(ctx context.Context, companyID int64, limit int) ([]models.Transaction, error)
}

// Repository is the gorm-backed TransactionRepository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateTransaction inserts the sale header.
func (r *Repository) CreateTransaction(ctx context.Context, record *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateItems inserts the sale line snapshots.
func (r *Repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DecrementStock takes quantity units off the product's stock, guarded
// so the counter never goes negative. Zero rows affected means the
// product is gone or the remaining stock cannot cover the sale.
func (r *Repository) DecrementStock(ctx context.Context, companyID, productID int64, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND company_id = ? AND stock_quantity >= ?
	`, quantity, productID, companyID, quantity)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// FindByID loads a committed sale with its items.
func (r *Repository) FindByID(ctx context.Context, companyID, id int64) (*models.Transaction, error) {
	var record models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByCompany returns the most recent sales for a company.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
