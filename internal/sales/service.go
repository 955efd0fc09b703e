package sales

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/pricing"
	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	Get(ctx context.Context, companyID int64, sessionID string) (*cart.Cart, error)
}

// Service commits carts into immutable transactions.
type Service interface {
	Quote(ctx context.Context, companyID int64, sessionID string, input CommitInput) (*pricing.Totals, error)
	Commit(ctx context.Context, companyID int64, sessionID string, input CommitInput) (*Receipt, error)
	GetReceipt(ctx context.Context, companyID, transactionID int64) (*Receipt, error)
	ListTransactions(ctx context.Context, companyID int64, limit int) ([]Receipt, error)
}

type service struct {
	repo    TransactionRepository
	tx      txRunner
	carts   cartLoader
	metrics *metrics.SalesMetrics
}

// NewService builds a sales service backed by the provided stack.
func NewService(repo TransactionRepository, tx txRunner, carts cartLoader, m *metrics.SalesMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	return &service{repo: repo, tx: tx, carts: carts, metrics: m}, nil
}

// Quote computes the totals the cart would settle at without touching
// stock or writing anything.
func (s *service) Quote(ctx context.Context, companyID int64, sessionID string, input CommitInput) (*pricing.Totals, error) {
	current, err := s.carts.Get(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no lines")
	}

	totals, err := pricing.ComputeTotals(current.Subtotal(), input.Adjustments, input.Received)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// Commit turns the session cart into a transaction. The whole write —
// header, items and every stock decrement — happens in one database
// transaction; any failing line rolls the sale back completely.
func (s *service) Commit(ctx context.Context, companyID int64, sessionID string, input CommitInput) (*Receipt, error) {
	started := time.Now()

	receipt, err := s.commit(ctx, companyID, sessionID, input)
	if err != nil {
		reason := "internal"
		if typed := pkgerrors.As(err); typed != nil {
			reason = string(typed.Code())
		}
		s.metrics.IncCommitFailure(reason)
		s.metrics.ObserveCommit("failure", time.Since(started))
		return nil, err
	}

	s.metrics.IncCommitSuccess()
	s.metrics.ObserveCommit("success", time.Since(started))
	return receipt, nil
}

func (s *service) commit(ctx context.Context, companyID int64, sessionID string, input CommitInput) (*Receipt, error) {
	current, err := s.carts.Get(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot commit an empty cart")
	}

	totals, err := pricing.ComputeTotals(current.Subtotal(), input.Adjustments, input.Received)
	if err != nil {
		return nil, err
	}
	if !totals.Payable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "received amount does not cover the total").
			WithDetails(map[string]any{
				"net_total": totals.NetTotal,
				"received":  totals.Received,
			})
	}

	var record *models.Transaction
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Decrement stock first so an unsatisfiable line aborts before
		// any sale rows exist.
		for _, line := range current.Lines {
			affected, decErr := repo.DecrementStock(ctx, companyID, line.ProductID, line.Quantity)
			if decErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, decErr, "decrementing stock")
			}
			if affected == 0 {
				return insufficientStockError(ctx, repo, companyID, line)
			}
		}

		created, createErr := repo.CreateTransaction(ctx, &models.Transaction{
			CompanyID: companyID,
			Subtotal:  totals.Subtotal,
			Discount:  totals.Discount,
			Surcharge: totals.Surcharge,
			NetTotal:  totals.NetTotal,
		})
		if createErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "creating transaction")
		}

		items := make([]models.TransactionItem, 0, len(current.Lines))
		for _, line := range current.Lines {
			items = append(items, models.TransactionItem{
				TransactionID: created.ID,
				ProductID:     line.ProductID,
				ProductName:   line.Name,
				UnitPrice:     line.UnitPrice,
				Quantity:      line.Quantity,
				LineTotal:     line.Total(),
			})
		}
		if itemsErr := repo.CreateItems(ctx, items); itemsErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, itemsErr, "creating transaction items")
		}

		created.Items = items
		record = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receiptFrom(record, totals), nil
}

func (s *service) GetReceipt(ctx context.Context, companyID, transactionID int64) (*Receipt, error) {
	record, err := s.repo.FindByID(ctx, companyID, transactionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading transaction")
	}
	return receiptFrom(record, storedTotals(record)), nil
}

func (s *service) ListTransactions(ctx context.Context, companyID int64, limit int) ([]Receipt, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing transactions")
	}

	out := make([]Receipt, 0, len(rows))
	for i := range rows {
		out = append(out, *receiptFrom(&rows[i], storedTotals(&rows[i])))
	}
	return out, nil
}

// storedTotals rebuilds the price breakdown from the persisted header.
// Received and change are not stored; historical receipts only carry
// the committed totals.
func storedTotals(record *models.Transaction) pricing.Totals {
	return pricing.Totals{
		Subtotal:  record.Subtotal,
		Discount:  record.Discount,
		Surcharge: record.Surcharge,
		NetTotal:  record.NetTotal,
	}
}

// insufficientStockError reloads the failing product so the terminal
// can show what is actually left.
func insufficientStockError(ctx context.Context, repo TransactionRepository, companyID int64, line cart.Line) error {
	details := map[string]any{
		"product_id": line.ProductID,
		"name":       line.Name,
		"requested":  line.Quantity,
	}

	gormRepo, ok := repo.(*Repository)
	if ok {
		var product models.Product
		if err := gormRepo.db.WithContext(ctx).
			Where("id = ? AND company_id = ?", line.ProductID, companyID).
			First(&product).Error; err == nil {
			details["available"] = product.StockQuantity
		} else if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q no longer exists", line.Name)).
				WithDetails(details)
		}
	}

	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("not enough stock of %q", line.Name)).
		WithDetails(details)
}
