package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TerminalTokenPayload captures the data available when minting a JWT
// for a till terminal session.
type TerminalTokenPayload struct {
	CompanyID int64
	SessionID string
	Operator  string
	JTI       string
}

// TerminalTokenClaims represents the typed JWT issued to terminals.
type TerminalTokenClaims struct {
	CompanyID int64  `json:"company_id"`
	SessionID string `json:"session_id"`
	Operator  string `json:"operator,omitempty"`
	jwt.RegisteredClaims
}
