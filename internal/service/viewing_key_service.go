package service

import (
	"errors"
	"fmt"
	"time"

	"shielded-nft/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const viewingScope = "nft:view"

type viewingClaims struct {
	NFTID string `json:"nft"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTViewingKeyService implements ports.ViewingKeyService using HS256 JWT.
// A viewing key names one viewer and one NFT.
type JWTViewingKeyService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTViewingKeyService creates a new viewing key service.
func NewJWTViewingKeyService(secret string, expiry time.Duration, issuer string) *JWTViewingKeyService {
	return &JWTViewingKeyService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a viewing key for viewer over nftID.
func (s *JWTViewingKeyService) Issue(viewer, nftID string) (string, time.Time, error) {
	if viewer == "" || nftID == "" {
		return "", time.Time{}, errors.New("viewer and nft id are required")
	}

	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := viewingClaims{
		NFTID: nftID,
		Scope: viewingScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewer,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing viewing key: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses a viewing key and returns its claims.
func (s *JWTViewingKeyService) Validate(credential string) (*ports.ViewingClaims, error) {
	claims := &viewingClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing viewing key: %w", err)
	}

	if claims.Scope != viewingScope {
		return nil, fmt.Errorf("unexpected scope %q", claims.Scope)
	}
	if claims.Subject == "" || claims.NFTID == "" {
		return nil, errors.New("viewing key is missing subject or nft")
	}

	return &ports.ViewingClaims{
		Viewer: claims.Subject,
		NFTID:  claims.NFTID,
	}, nil
}
