package common

import (
	"errors"
	"time"

	"radio-cms/domain"

	"github.com/golang-jwt/jwt/v5"
)

type JwtProviderConfig interface {
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	TokenIssuer() string
}

type JWTProvider struct {
	cfg JwtProviderConfig
	now func() time.Time
}

func NewJWTProvider(cfg JwtProviderConfig) *JWTProvider {
	return &JWTProvider{cfg: cfg, now: time.Now}
}

// Generate signs an access token carrying the user id and role rank.
// The returned expiry is in unix milliseconds.
func (j *JWTProvider) Generate(userID string, role domain.RoleID) (string, int64, error) {
	now := j.now()
	expiresAt := now.Add(j.cfg.AccessTokenExpiresIn())
	claims := domain.JwtClaims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.TokenIssuer(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.cfg.AccessTokenSecret()))
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt.UnixMilli(), nil
}

func (j *JWTProvider) Verify(tokenStr string) (*domain.JwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &domain.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.cfg.AccessTokenSecret()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.TokenIssuer()),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*domain.JwtClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
