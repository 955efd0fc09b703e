package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/internal/pricing"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	pkgAuth "github.com/angelmondragon/tillpoint-backend/pkg/auth"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) GetProduct(context.Context, int64, int64) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalog) GetProductByBarcode(context.Context, int64, string) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalog) ListProducts(context.Context, int64) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalog) CreateProduct(context.Context, int64, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (stubCatalog) UpdateProduct(context.Context, int64, int64, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (stubCatalog) Restock(context.Context, int64, int64, int) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

type stubEngine struct{}

func (stubEngine) Get(context.Context, int64, string) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubEngine) AddByBarcode(context.Context, int64, string, string) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubEngine) AddByID(context.Context, int64, string, int64, int) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubEngine) SetQuantity(context.Context, int64, string, int64, int) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubEngine) RemoveAt(context.Context, int64, string, int) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubEngine) Clear(context.Context, int64, string) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

type stubSales struct{}

func (stubSales) Quote(context.Context, int64, string, sales.CommitInput) (*pricing.Totals, error) {
	return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no lines")
}

func (stubSales) Commit(context.Context, int64, string, sales.CommitInput) (*sales.Receipt, error) {
	return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot commit an empty cart")
}

func (stubSales) GetReceipt(context.Context, int64, int64) (*sales.Receipt, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
}

func (stubSales) ListTransactions(context.Context, int64, int) ([]sales.Receipt, error) {
	return []sales.Receipt{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "tillpoint", ExpirationMinutes: 30},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(testConfig(), nil, stubPinger{}, nil, stubCatalog{}, stubEngine{}, stubSales{}, nil)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestProtectedRoutesAcceptTerminalToken(t *testing.T) {
	router := newTestRouter()
	cfg := testConfig()

	token, err := pkgAuth.MintTerminalToken(cfg.JWT, time.Now(), pkgAuth.TerminalTokenPayload{
		CompanyID: 1,
		SessionID: "till-1",
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Subtotal string `json:"subtotal"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Subtotal != "0.00" {
		t.Fatalf("unexpected subtotal: %s", envelope.Data.Subtotal)
	}
}
