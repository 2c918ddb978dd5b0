package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/model"
)

// Claims represents JWT claims with token class and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements model.TokenSigner backed by symmetric HMAC. Access and
// refresh tokens use separate secrets, so a refresh token presented as an
// access token (or vice versa) fails signature verification outright even
// before the class claim is checked.
type JWT struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// NewJWT creates a token signer with the provided secrets and lifetimes.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL returns the refresh-token lifetime used at signing.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// SignAccess creates a short-lived access token.
func (j *JWT) SignAccess(userID uuid.UUID) (string, error) {
	return j.sign(userID, typeAccess, j.accessSecret, j.accessTTL)
}

// SignRefresh creates a long-lived refresh token.
func (j *JWT) SignRefresh(userID uuid.UUID) (string, error) {
	return j.sign(userID, typeRefresh, j.refreshSecret, j.refreshTTL)
}

// VerifyAccess validates an access token and extracts the user ID. The
// check is stateless: signature and expiry only.
func (j *JWT) VerifyAccess(tokenString string) (uuid.UUID, error) {
	return j.verify(tokenString, typeAccess, j.accessSecret)
}

// VerifyRefresh validates a refresh token and extracts the user ID.
func (j *JWT) VerifyRefresh(tokenString string) (uuid.UUID, error) {
	return j.verify(tokenString, typeRefresh, j.refreshSecret)
}

func (j *JWT) sign(userID uuid.UUID, tokenType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

func (j *JWT) verify(tokenString, tokenType, secret string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", model.ErrInvalidOrExpiredToken, err)
	}
	if !token.Valid {
		return uuid.Nil, model.ErrInvalidOrExpiredToken
	}
	if claims.TokenType != tokenType {
		return uuid.Nil, fmt.Errorf("%w: token type mismatch", model.ErrInvalidOrExpiredToken)
	}
	return claims.UserID, nil
}
