package model

import "github.com/google/uuid"

// TokenManager mints and validates the access/refresh token pair. Refresh
// tokens carry a JTI so their persisted records can be rotated and revoked.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}
