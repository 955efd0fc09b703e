package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/metrics"
)

type productLoader interface {
	GetProduct(ctx context.Context, companyID, id int64) (*catalog.ProductDTO, error)
	GetProductByBarcode(ctx context.Context, companyID int64, barcode string) (*catalog.ProductDTO, error)
}

// Engine mutates the session cart. Every operation loads the cart from
// the store, applies the change and writes it back; stock is checked
// against the live catalog on every add or quantity change.
type Engine interface {
	Get(ctx context.Context, companyID int64, sessionID string) (*Cart, error)
	AddByBarcode(ctx context.Context, companyID int64, sessionID, barcode string) (*Cart, error)
	AddByID(ctx context.Context, companyID int64, sessionID string, productID int64, quantity int) (*Cart, error)
	SetQuantity(ctx context.Context, companyID int64, sessionID string, productID int64, quantity int) (*Cart, error)
	RemoveAt(ctx context.Context, companyID int64, sessionID string, index int) (*Cart, error)
	Clear(ctx context.Context, companyID int64, sessionID string) (*Cart, error)
}

type engine struct {
	store    Store
	products productLoader
	metrics  *metrics.SalesMetrics
}

// NewEngine builds a cart engine backed by the provided stack.
func NewEngine(store Store, products productLoader, m *metrics.SalesMetrics) (Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &engine{store: store, products: products, metrics: m}, nil
}

func (e *engine) Get(ctx context.Context, companyID int64, sessionID string) (*Cart, error) {
	return e.store.Load(ctx, companyID, sessionID)
}

func (e *engine) AddByBarcode(ctx context.Context, companyID int64, sessionID, barcode string) (*Cart, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	product, err := e.products.GetProductByBarcode(ctx, companyID, barcode)
	if err != nil {
		return nil, err
	}
	return e.addProduct(ctx, companyID, sessionID, product, 1, "add_barcode")
}

func (e *engine) AddByID(ctx context.Context, companyID int64, sessionID string, productID int64, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := e.products.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	return e.addProduct(ctx, companyID, sessionID, product, quantity, "add_id")
}

func (e *engine) addProduct(ctx context.Context, companyID int64, sessionID string, product *catalog.ProductDTO, quantity int, op string) (*Cart, error) {
	cart, err := e.store.Load(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.lineIndexByProduct(product.ID)
	desired := quantity
	if idx >= 0 {
		desired += cart.Lines[idx].Quantity
	}
	if err := checkStock(product, desired); err != nil {
		return nil, err
	}

	// Merging only bumps the quantity; the name and price stay as
	// snapshotted when the line was first added.
	if idx >= 0 {
		cart.Lines[idx].Quantity = desired
	} else {
		cart.Lines = append(cart.Lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			UnitPrice: product.UnitPrice,
			Quantity:  quantity,
			ImagePath: product.ImagePath,
		})
	}

	if err := e.store.Save(ctx, companyID, sessionID, cart); err != nil {
		return nil, err
	}
	e.metrics.IncCartOp(op)
	return cart, nil
}

func (e *engine) SetQuantity(ctx context.Context, companyID int64, sessionID string, productID int64, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := e.store.Load(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	idx := cart.lineIndexByProduct(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}

	product, err := e.products.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, quantity); err != nil {
		return nil, err
	}

	cart.Lines[idx].Quantity = quantity

	if err := e.store.Save(ctx, companyID, sessionID, cart); err != nil {
		return nil, err
	}
	e.metrics.IncCartOp("set_quantity")
	return cart, nil
}

func (e *engine) RemoveAt(ctx context.Context, companyID int64, sessionID string, index int) (*Cart, error) {
	cart, err := e.store.Load(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}

	// Out-of-range removals are a no-op: the till UI may race its own
	// refresh and double-send the same removal.
	if index < 0 || index >= len(cart.Lines) {
		return cart, nil
	}

	cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	if err := e.store.Save(ctx, companyID, sessionID, cart); err != nil {
		return nil, err
	}
	e.metrics.IncCartOp("remove")
	return cart, nil
}

func (e *engine) Clear(ctx context.Context, companyID int64, sessionID string) (*Cart, error) {
	if err := e.store.Clear(ctx, companyID, sessionID); err != nil {
		return nil, err
	}
	e.metrics.IncCartOp("clear")
	return &Cart{}, nil
}

// checkStock verifies the catalog can satisfy the desired total
// quantity for one product.
func checkStock(product *catalog.ProductDTO, desired int) error {
	if desired <= product.StockQuantity {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("only %d of %q available", product.StockQuantity, product.Name)).
		WithDetails(map[string]any{
			"product_id": product.ID,
			"name":       product.Name,
			"available":  product.StockQuantity,
			"requested":  desired,
		})
}
