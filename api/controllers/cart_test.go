package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	cartsvc "github.com/angelmondragon/tillpoint-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type stubEngine struct {
	cart *cartsvc.Cart
	err  error
}

func (s stubEngine) Get(context.Context, int64, string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s stubEngine) AddByBarcode(context.Context, int64, string, string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s stubEngine) AddByID(context.Context, int64, string, int64, int) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s stubEngine) SetQuantity(context.Context, int64, string, int64, int) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s stubEngine) RemoveAt(context.Context, int64, string, int) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s stubEngine) Clear(context.Context, int64, string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

type recordingEngine struct {
	stubEngine
	productID int64
	quantity  int
	index     int
}

func (s *recordingEngine) SetQuantity(_ context.Context, _ int64, _ string, productID int64, quantity int) (*cartsvc.Cart, error) {
	s.productID = productID
	s.quantity = quantity
	return s.cart, s.err
}

func (s *recordingEngine) RemoveAt(_ context.Context, _ int64, _ string, index int) (*cartsvc.Cart, error) {
	s.index = index
	return s.cart, s.err
}

func terminalContext(r *http.Request) *http.Request {
	ctx := middleware.WithCompanyID(r.Context(), 1)
	ctx = middleware.WithSessionID(ctx, "till-1")
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCartSuccess(t *testing.T) {
	current := &cartsvc.Cart{Lines: []cartsvc.Line{{
		ProductID: 9,
		Name:      "Espresso Beans",
		UnitPrice: decimal.RequireFromString("12.50"),
		Quantity:  2,
	}}}
	handler := GetCart(stubEngine{cart: current}, nil)

	req := terminalContext(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Subtotal != "25.00" {
		t.Fatalf("unexpected subtotal: %s", envelope.Data.Subtotal)
	}
	if len(envelope.Data.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(envelope.Data.Lines))
	}
}

func TestScanIntoCartInsufficientStock(t *testing.T) {
	handler := ScanIntoCart(stubEngine{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 0 left")}, nil)

	body := strings.NewReader(`{"barcode":"750123"}`)
	req := terminalContext(httptest.NewRequest(http.MethodPost, "/api/v1/cart/scan", body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("unexpected error code: %s", envelope.Error.Code)
	}
}

func TestScanIntoCartRejectsMissingBarcode(t *testing.T) {
	handler := ScanIntoCart(stubEngine{cart: &cartsvc.Cart{}}, nil)

	body := strings.NewReader(`{}`)
	req := terminalContext(httptest.NewRequest(http.MethodPost, "/api/v1/cart/scan", body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSetCartItemQuantityAddressesProduct(t *testing.T) {
	engine := &recordingEngine{stubEngine: stubEngine{cart: &cartsvc.Cart{}}}
	handler := SetCartItemQuantity(engine, nil)

	body := strings.NewReader(`{"quantity":3}`)
	req := terminalContext(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/9", body))
	req = withURLParam(req, "productId", "9")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if engine.productID != 9 {
		t.Fatalf("expected product id 9 forwarded, got %d", engine.productID)
	}
	if engine.quantity != 3 {
		t.Fatalf("expected quantity 3 forwarded, got %d", engine.quantity)
	}
}

func TestRemoveCartItemNegativeIndexIsNoop(t *testing.T) {
	current := &cartsvc.Cart{Lines: []cartsvc.Line{{
		ProductID: 9,
		Name:      "Espresso Beans",
		UnitPrice: decimal.RequireFromString("12.50"),
		Quantity:  1,
	}}}
	engine := &recordingEngine{stubEngine: stubEngine{cart: current}}
	handler := RemoveCartItem(engine, nil)

	req := terminalContext(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/-1", nil))
	req = withURLParam(req, "index", "-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if engine.index != -1 {
		t.Fatalf("expected index -1 forwarded, got %d", engine.index)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Lines) != 1 {
		t.Fatalf("expected cart untouched, got %+v", envelope.Data.Lines)
	}
}

func TestAddCartItemRejectsUnknownFields(t *testing.T) {
	handler := AddCartItem(stubEngine{cart: &cartsvc.Cart{}}, nil)

	body := strings.NewReader(`{"product_id":1,"quantity":1,"price":"0.01"}`)
	req := terminalContext(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
