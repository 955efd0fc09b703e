package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type stubStore struct {
	carts map[string]*Cart
}

func newStubStore() *stubStore {
	return &stubStore{carts: map[string]*Cart{}}
}

func (s *stubStore) key(companyID int64, sessionID string) string {
	return sessionID
}

func (s *stubStore) Load(_ context.Context, companyID int64, sessionID string) (*Cart, error) {
	if cart, ok := s.carts[s.key(companyID, sessionID)]; ok {
		copied := *cart
		copied.Lines = append([]Line(nil), cart.Lines...)
		return &copied, nil
	}
	return &Cart{}, nil
}

func (s *stubStore) Save(_ context.Context, companyID int64, sessionID string, cart *Cart) error {
	s.carts[s.key(companyID, sessionID)] = cart
	return nil
}

func (s *stubStore) Clear(_ context.Context, companyID int64, sessionID string) error {
	delete(s.carts, s.key(companyID, sessionID))
	return nil
}

type stubProducts struct {
	byID      map[int64]*catalog.ProductDTO
	byBarcode map[string]*catalog.ProductDTO
}

func newStubProducts(products ...*catalog.ProductDTO) *stubProducts {
	s := &stubProducts{byID: map[int64]*catalog.ProductDTO{}, byBarcode: map[string]*catalog.ProductDTO{}}
	for _, p := range products {
		s.byID[p.ID] = p
		s.byBarcode[p.Barcode] = p
	}
	return s
}

func (s *stubProducts) GetProduct(_ context.Context, _ int64, id int64) (*catalog.ProductDTO, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProducts) GetProductByBarcode(_ context.Context, _ int64, barcode string) (*catalog.ProductDTO, error) {
	if p, ok := s.byBarcode[barcode]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that barcode")
}

func beansProduct() *catalog.ProductDTO {
	return &catalog.ProductDTO{
		ID:            1,
		Name:          "Espresso Beans",
		Barcode:       "750123",
		UnitPrice:     decimal.RequireFromString("12.50"),
		StockQuantity: 3,
	}
}

func newTestEngine(t *testing.T, products ...*catalog.ProductDTO) (Engine, *stubStore) {
	t.Helper()

	store := newStubStore()
	eng, err := NewEngine(store, newStubProducts(products...), nil)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return eng, store
}

func TestAddByBarcodeMergesLines(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, beansProduct())
	ctx := context.Background()

	cart, err := eng.AddByBarcode(ctx, 1, "till-1", "750123")
	if err != nil {
		t.Fatalf("AddByBarcode returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 1 {
		t.Fatalf("expected single line qty 1, got %+v", cart.Lines)
	}

	cart, err = eng.AddByBarcode(ctx, 1, "till-1", "750123")
	if err != nil {
		t.Fatalf("second AddByBarcode returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected merged line qty 2, got %+v", cart.Lines)
	}
	if !cart.Subtotal().Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected subtotal: %s", cart.Subtotal())
	}
}

func TestAddByIDRespectsStock(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, beansProduct())
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 2); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	// 2 in cart + 2 requested > 3 in stock.
	_, err := eng.AddByID(ctx, 1, "till-1", 1, 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected stock details on error")
	}

	// Topping up to exactly the stock level is allowed.
	cart, err := eng.AddByID(ctx, 1, "till-1", 1, 1)
	if err != nil {
		t.Fatalf("AddByID to stock limit returned error: %v", err)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected qty 3, got %d", cart.Lines[0].Quantity)
	}
}

func TestAddByIDValidatesQuantity(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, beansProduct())

	_, err := eng.AddByID(context.Background(), 1, "till-1", 1, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, beansProduct())
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 1); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	cart, err := eng.SetQuantity(ctx, 1, "till-1", 1, 3)
	if err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected qty 3, got %d", cart.Lines[0].Quantity)
	}

	_, err = eng.SetQuantity(ctx, 1, "till-1", 1, 4)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK above stock, got %v", err)
	}

	_, err = eng.SetQuantity(ctx, 1, "till-1", 99, 1)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for product absent from cart, got %v", err)
	}
}

func TestAddKeepsPriceSnapshot(t *testing.T) {
	t.Parallel()

	product := beansProduct()
	eng, _ := newTestEngine(t, product)
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 1); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	// A catalog reprice mid-session must not touch goods already rung up.
	product.UnitPrice = decimal.RequireFromString("99.00")
	product.Name = "Espresso Beans Deluxe"

	cart, err := eng.AddByID(ctx, 1, "till-1", 1, 1)
	if err != nil {
		t.Fatalf("second AddByID returned error: %v", err)
	}
	if cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected merged qty 2, got %d", cart.Lines[0].Quantity)
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected snapshot price 12.50, got %s", cart.Lines[0].UnitPrice)
	}
	if cart.Lines[0].Name != "Espresso Beans" {
		t.Fatalf("expected snapshot name, got %q", cart.Lines[0].Name)
	}
	if !cart.Subtotal().Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected subtotal 25.00 from snapshot, got %s", cart.Subtotal())
	}
}

func TestSetQuantityKeepsPriceSnapshot(t *testing.T) {
	t.Parallel()

	product := beansProduct()
	eng, _ := newTestEngine(t, product)
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 1); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	product.UnitPrice = decimal.RequireFromString("99.00")

	cart, err := eng.SetQuantity(ctx, 1, "till-1", 1, 3)
	if err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected snapshot price 12.50, got %s", cart.Lines[0].UnitPrice)
	}
	if !cart.Subtotal().Equal(decimal.RequireFromString("37.50")) {
		t.Fatalf("expected subtotal 37.50 from snapshot, got %s", cart.Subtotal())
	}
}

func TestRemoveAtOutOfRangeIsNoop(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, beansProduct())
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 1); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	cart, err := eng.RemoveAt(ctx, 1, "till-1", 7)
	if err != nil {
		t.Fatalf("RemoveAt returned error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected untouched cart, got %+v", cart.Lines)
	}

	cart, err = eng.RemoveAt(ctx, 1, "till-1", -1)
	if err != nil {
		t.Fatalf("RemoveAt with negative index returned error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected untouched cart for negative index, got %+v", cart.Lines)
	}

	cart, err = eng.RemoveAt(ctx, 1, "till-1", 0)
	if err != nil {
		t.Fatalf("RemoveAt returned error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart.Lines)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	eng, store := newTestEngine(t, beansProduct())
	ctx := context.Background()

	if _, err := eng.AddByID(ctx, 1, "till-1", 1, 2); err != nil {
		t.Fatalf("AddByID returned error: %v", err)
	}

	cart, err := eng.Clear(ctx, 1, "till-1")
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected cleared cart")
	}
	if _, ok := store.carts["till-1"]; ok {
		t.Fatal("expected store entry to be removed")
	}
}
