package usecase

import (
	"context"
	"strings"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PasswordComparer interface {
	Compare(hashed, password string) bool
}

type TokenProvider interface {
	Generate(userID string, role domain.RoleID) (string, int64, error)
	Verify(token string) (*domain.JwtClaims, error)
}

type authUsecase struct {
	users    UserFinder
	hasher   PasswordComparer
	tokens   TokenProvider
	registry *domain.RoleRegistry
	logger   log.Logger
}

func NewAuthUsecase(
	users UserFinder,
	hasher PasswordComparer,
	tokens TokenProvider,
	registry *domain.RoleRegistry,
	logger log.Logger,
) domain.AuthUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &authUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		registry: registry,
		logger:   logger,
	}
}

// Login never reveals whether the email or the password was wrong.
func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.hasher.Compare(user.Password, req.Password) {
		u.logger.WarnContext(ctx, "login rejected", log.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	token, expiresAt, err := u.tokens.Generate(user.ID, user.RoleID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err).WithReason("failed to sign access token")
	}
	return &domain.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate trusts the signed claims and does not reload the user.
// Tokens carrying a rank that is no longer registered are rejected.
func (u *authUsecase) Authenticate(_ context.Context, accessToken string) (*domain.Principal, error) {
	claims, err := u.tokens.Verify(accessToken)
	if err != nil {
		return nil, domain.ErrInvalidToken.WithWrap(err)
	}
	if claims.Sub == "" {
		return nil, domain.ErrInvalidToken.WithReason("token has no subject")
	}
	if u.registry != nil && !u.registry.IsRegistered(claims.Role) {
		return nil, domain.ErrInvalidToken.WithReasonf("role %d is not registered", claims.Role)
	}
	return &domain.Principal{UserID: claims.Sub, Role: claims.Role}, nil
}
