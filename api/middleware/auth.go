package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/tillpoint-backend/api/responses"
	pkgAuth "github.com/angelmondragon/tillpoint-backend/pkg/auth"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// terminal's company, session and operator.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseTerminalToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.CompanyID <= 0 || claims.SessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "incomplete terminal claims"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCompanyID, claims.CompanyID)
			ctx = context.WithValue(ctx, ctxSessionID, claims.SessionID)
			if claims.Operator != "" {
				ctx = context.WithValue(ctx, ctxOperator, claims.Operator)
			}

			if logg != nil {
				ctx = logg.WithCompanyID(ctx, claims.CompanyID)
				ctx = logg.WithSessionID(ctx, claims.SessionID)
				if claims.Operator != "" {
					ctx = logg.WithOperator(ctx, claims.Operator)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
