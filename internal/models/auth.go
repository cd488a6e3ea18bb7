package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DirectorAccountID identifies the fixed privileged account.
const DirectorAccountID = "director"

// LoginRequest holds credentials for authenticating an operator.
// Email is not format-checked so the Director may sign in with any configured id.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// Session is the persisted record of who is signed in.
type Session struct {
	Account    AccountInfo `json:"account"`
	SignedInAt time.Time   `json:"signedInAt"`
}

// LoginResponse returns the issued token and the signed-in account.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Account     AccountInfo `json:"account"`
}

// UpdateProfileRequest edits the signed-in operator's own profile.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AccountID string   `json:"account_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	jwt.RegisteredClaims
}
