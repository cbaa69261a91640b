package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-notes-api/config"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

var _ TokenManager = (*JWTManager)(nil)

// TokenManager issues and verifies signed identity tokens.
type TokenManager interface {
	// Issue returns a signed token carrying subjectID.
	Issue(subjectID string) (string, error)
	// Verify returns the subject of a valid token, or an error wrapping
	// types.ErrUnauthenticated when the token is invalid or expired.
	Verify(token string) (string, error)
}

// JWTManager signs HS256 tokens with a shared secret.
type JWTManager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	secret := cfg.SecretKey
	if secret == "" {
		secret = config.DefaultJWTSecret
	}
	return &JWTManager{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
}

func (m *JWTManager) Issue(subjectID string) (string, error) {
	now := m.now()
	claims := types.Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    m.issuer,
		},
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("token expired: %w", types.ErrUnauthenticated)
		}
		return "", fmt.Errorf("%w: %v", types.ErrUnauthenticated, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", fmt.Errorf("token carries no subject: %w", types.ErrUnauthenticated)
	}
	return claims.UserID, nil
}
