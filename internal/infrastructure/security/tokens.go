// Package security provides JWT token issuance and validation.
package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/config"
)

// Claims is the JWT claims structure for session tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session tokens with HS256.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	logger     *zap.Logger
}

// NewTokenService creates a token service from auth configuration.
func NewTokenService(cfg *config.AuthConfig, logger *zap.Logger) *TokenService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		expiration: expiration,
		logger:     logger,
	}
}

// Issue creates a signed session token for a user.
func (s *TokenService) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mealpathway",
			Subject:   userID,
			Audience:  []string{"mealpathway-api"},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate parses a token string and returns its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
