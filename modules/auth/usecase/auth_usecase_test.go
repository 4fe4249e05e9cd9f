package usecase

import (
	"context"
	"testing"
	"time"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwtConfig struct {
	ttl    time.Duration
	secret string
}

func (c jwtConfig) AccessTokenExpiresIn() time.Duration { return c.ttl }
func (c jwtConfig) AccessTokenSecret() string           { return c.secret }
func (c jwtConfig) TokenIssuer() string                 { return "radio-cms" }

type userTable map[string]*domain.User

func (t userTable) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := t[email]; ok {
		return u, nil
	}
	return nil, domain.ErrRecordNotFound
}

func newAuthUsecase(t *testing.T, users userTable, cfg jwtConfig) domain.AuthUsecase {
	t.Helper()
	registry, err := domain.NewRoleRegistry(domain.DefaultRoles()...)
	require.NoError(t, err)
	return NewAuthUsecase(users, common.NewHasher(4), common.NewJWTProvider(cfg), registry, log.NewNopLogger())
}

func fixtureUsers(t *testing.T) userTable {
	t.Helper()
	hashed, err := common.NewHasher(4).Hash("correct horse")
	require.NoError(t, err)
	return userTable{
		"editor@radio.example": {
			SQLModel: domain.SQLModel{ID: "u-edit"},
			Email:    "editor@radio.example",
			Password: hashed,
			RoleID:   domain.RoleIDEdit,
			Active:   true,
		},
		"gone@radio.example": {
			SQLModel: domain.SQLModel{ID: "u-gone"},
			Email:    "gone@radio.example",
			Password: hashed,
			RoleID:   domain.RoleIDUser,
		},
	}
}

func TestLogin_IssuesTokenThatAuthenticates(t *testing.T) {
	uc := newAuthUsecase(t, fixtureUsers(t), jwtConfig{ttl: time.Hour, secret: "s3cret"})
	ctx := context.Background()

	res, err := uc.Login(ctx, &domain.LoginRequest{Email: " Editor@Radio.Example", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Greater(t, res.ExpiresAt, time.Now().UnixMilli())
	assert.Equal(t, "u-edit", res.User.ID)

	principal, err := uc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-edit", principal.UserID)
	assert.Equal(t, domain.RoleIDEdit, principal.Role)
}

func TestLogin_Rejections(t *testing.T) {
	uc := newAuthUsecase(t, fixtureUsers(t), jwtConfig{ttl: time.Hour, secret: "s3cret"})
	ctx := context.Background()

	_, err := uc.Login(ctx, &domain.LoginRequest{Email: "nobody@radio.example", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &domain.LoginRequest{Email: "editor@radio.example", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &domain.LoginRequest{Email: "gone@radio.example", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	users := fixtureUsers(t)
	uc := newAuthUsecase(t, users, jwtConfig{ttl: time.Hour, secret: "s3cret"})
	ctx := context.Background()

	_, err := uc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other := newAuthUsecase(t, users, jwtConfig{ttl: time.Hour, secret: "different"})
	res, err := other.Login(ctx, &domain.LoginRequest{Email: "editor@radio.example", Password: "correct horse"})
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired := newAuthUsecase(t, users, jwtConfig{ttl: -time.Minute, secret: "s3cret"})
	res, err = expired.Login(ctx, &domain.LoginRequest{Email: "editor@radio.example", Password: "correct horse"})
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthenticate_UnregisteredRank(t *testing.T) {
	provider := common.NewJWTProvider(jwtConfig{ttl: time.Hour, secret: "s3cret"})
	token, _, err := provider.Generate("u1", domain.RoleID(42))
	require.NoError(t, err)

	uc := newAuthUsecase(t, userTable{}, jwtConfig{ttl: time.Hour, secret: "s3cret"})
	_, err = uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
