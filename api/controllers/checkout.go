package controllers

import (
	"net/http"
	"strconv"

	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	"github.com/angelmondragon/tillpoint-backend/api/responses"
	"github.com/angelmondragon/tillpoint-backend/api/validators"
	cartsvc "github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// QuoteCheckout previews the totals for the current cart without
// committing anything.
func QuoteCheckout(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload sales.CommitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.Quote(r.Context(), companyID, sessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// CommitCheckout settles the cart into a transaction and clears the
// session cart on success.
func CommitCheckout(svc sales.Service, engine cartsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		companyID := middleware.CompanyIDFromContext(ctx)
		sessionID := middleware.SessionIDFromContext(ctx)

		var payload sales.CommitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.Commit(ctx, companyID, sessionID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"transaction_id": receipt.TransactionID,
				"net_total":      receipt.Totals.NetTotal.StringFixed(2),
			})
			if operator := middleware.OperatorFromContext(ctx); operator != "" {
				logCtx = logg.WithOperator(logCtx, operator)
			}
			logg.Info(logCtx, "sale.committed")
		}

		// The sale is durable at this point. A failed cart clear must
		// not fail the request; the next session operation overwrites
		// the stale cart anyway.
		if _, clearErr := engine.Clear(ctx, companyID, sessionID); clearErr != nil && logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{"error": clearErr.Error()}), "cart.clear_after_commit_failed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// GetTransaction returns one committed sale with its lines.
func GetTransaction(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())
		transactionID, err := pathInt64(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.GetReceipt(r.Context(), companyID, transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

// ListTransactions returns the company's recent sales, newest first.
func ListTransactions(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := middleware.CompanyIDFromContext(r.Context())

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		rows, err := svc.ListTransactions(r.Context(), companyID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
