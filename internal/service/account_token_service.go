package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accountAudience = "nft:account"

var errAccountAuthDisabled = errors.New("account authentication is not configured")

// JWTAccountTokenService implements ports.AccountTokenService using HS256
// JWT. Its secret must differ from the viewing key secret; the audience claim
// also keeps a viewing key from passing as an account token.
type JWTAccountTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTAccountTokenService creates a token service. An empty secret leaves
// it disabled: Issue and Validate both fail.
func NewJWTAccountTokenService(secret string, expiry time.Duration, issuer string) *JWTAccountTokenService {
	return &JWTAccountTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token proving control of account.
func (s *JWTAccountTokenService) Issue(account string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errAccountAuthDisabled
	}
	if err := validateAccount("account", account); err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := jwt.RegisteredClaims{
		Subject:   account,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{accountAudience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing account token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate returns the account a token was issued to.
func (s *JWTAccountTokenService) Validate(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", errAccountAuthDisabled
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(accountAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parsing account token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("account token has no subject")
	}
	return claims.Subject, nil
}
