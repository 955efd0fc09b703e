package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tillpoint-backend/api/responses"
	"github.com/angelmondragon/tillpoint-backend/api/validators"
	pkgAuth "github.com/angelmondragon/tillpoint-backend/pkg/auth"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

type openSessionRequest struct {
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Operator  string `json:"operator"`
}

type openSessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	ExpiresIn int    `json:"expires_in_minutes"`
}

// OpenSession mints a terminal token for a till. Each call starts a
// fresh session with its own empty cart.
func OpenSession(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload openSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := uuid.NewString()
		token, err := pkgAuth.MintTerminalToken(cfg, time.Now(), pkgAuth.TerminalTokenPayload{
			CompanyID: payload.CompanyID,
			SessionID: sessionID,
			Operator:  payload.Operator,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, openSessionResponse{
			Token:     token,
			SessionID: sessionID,
			ExpiresIn: cfg.ExpirationMinutes,
		})
	}
}
