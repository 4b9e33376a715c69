package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/model"
)

// Claims carried by every token the service mints. Kind separates access
// tokens from refresh tokens so one can never stand in for the other.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
	Kind   string    `json:"knd"`
}

const (
	kindAccess  = "access"
	kindRefresh = "refresh"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

// JWT is a TokenManager backed by symmetric HMAC signing.
type JWT struct {
	key []byte
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a token manager signing with the given secret.
func NewJWT(secret string) model.TokenManager {
	return &JWT{key: []byte(secret)}
}

func (j *JWT) issue(userID uuid.UUID, kind string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Kind:   kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, nil
}

func (j *JWT) parse(tokenString, kind string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s token: %w", kind, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%s token is invalid", kind)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("token kind mismatch: got %q", claims.Kind)
	}

	return claims, nil
}

// GenerateAccessToken mints a short-lived access token.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return j.issue(userID, kindAccess, accessTokenTTL, "")
}

// GenerateRefreshToken mints a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	jti := uuid.NewString()

	signed, err := j.issue(userID, kindRefresh, refreshTokenTTL, jti)
	if err != nil {
		return "", "", err
	}

	return signed, jti, nil
}

// ParseAccessToken validates an access token and returns the subject user ID.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, kindAccess)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// ParseRefreshToken validates a refresh token and returns the subject user ID
// and the token's JTI.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := j.parse(tokenString, kindRefresh)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, claims.ID, nil
}
