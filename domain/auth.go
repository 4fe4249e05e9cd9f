package domain

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

/****************************
*        Auth errors        *
****************************/
var (
	ErrInvalidCredentials = &DetailedError{
		IDField:         "INVALID_CREDENTIALS",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Invalid email or password",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrInvalidToken = &DetailedError{
		IDField:         "INVALID_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Invalid or expired token",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrMissingToken = &DetailedError{
		IDField:         "MISSING_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Authorization header is required",
		StatusCodeField: http.StatusUnauthorized,
	}
)

/***************************************
*       Auth entities and types       *
***************************************/

type JwtClaims struct {
	Sub  string `json:"sub"`
	Role RoleID `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   RoleID `json:"role_id"`
}

func (p *Principal) HasRank(min RoleID) bool {
	return p != nil && p.Role.AtLeast(min)
}

// RequireRank returns ErrInsufficientRank when the principal is below min.
func (p *Principal) RequireRank(min RoleID) error {
	if p == nil {
		return ErrUnauthorized.WithReason("authentication required")
	}
	if !p.Role.AtLeast(min) {
		return ErrInsufficientRank.WithReasonf("rank %d required, caller has %d", min, p.Role)
	}
	return nil
}

func (p *Principal) ActorID() string {
	if p == nil {
		return ""
	}
	return p.UserID
}

/*************************************
*  Auth usecase interfaces and types *
**************************************/
type AuthUsecase interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*Principal, error)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}
