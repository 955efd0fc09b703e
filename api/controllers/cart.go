package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	"github.com/angelmondragon/tillpoint-backend/api/responses"
	"github.com/angelmondragon/tillpoint-backend/api/validators"
	cartsvc "github.com/angelmondragon/tillpoint-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

type cartView struct {
	Lines    []cartsvc.Line `json:"lines"`
	Subtotal string         `json:"subtotal"`
}

func viewOf(c *cartsvc.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []cartsvc.Line{}
	}
	return cartView{Lines: lines, Subtotal: c.Subtotal().StringFixed(2)}
}

// GetCart returns the terminal's current cart.
func GetCart(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		current, err := engine.Get(r.Context(), companyID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

// ScanIntoCart adds one unit of the scanned product, merging lines.
func ScanIntoCart(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload scanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := engine.AddByBarcode(r.Context(), companyID, sessionID, payload.Barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// AddCartItem adds a product by id with an explicit quantity.
func AddCartItem(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := engine.AddByID(r.Context(), companyID, sessionID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// SetCartItemQuantity changes the quantity on the cart line holding
// the product in the path.
func SetCartItemQuantity(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := pathInt64(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := engine.SetQuantity(r.Context(), companyID, sessionID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

// RemoveCartItem drops one cart line by its position.
func RemoveCartItem(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		index, err := pathIndex(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := engine.RemoveAt(r.Context(), companyID, sessionID, index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

// ClearCart empties the terminal's cart.
func ClearCart(engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		current, err := engine.Clear(r.Context(), companyID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

// pathIndex accepts any integer; out-of-range values, negatives
// included, fall through to the engine which treats them as a no-op.
func pathIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid line index")
	}
	return index, nil
}
