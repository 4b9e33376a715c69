package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// refreshRecordTTL mirrors the refresh token lifetime encoded in the JWT
// claims. The persisted copy only backs rotation and revocation checks;
// cryptographic validity is still decided by the token manager at parse time.
const refreshRecordTTL = 30 * 24 * time.Hour

// TokenService issues, rotates, and revokes token pairs. Refresh tokens are
// persisted hashed so a leaked database does not yield usable tokens.
type TokenService struct {
	manager model.TokenManager
	tokens  model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, tokens model.RefreshTokenStore, l *logger.Logger) *TokenService {
	return &TokenService{
		manager: manager,
		tokens:  tokens,
		logger:  l,
	}
}

// Issue mints a fresh access/refresh pair for the user and persists the
// refresh token record.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (string, string, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.tokens.Create(ctx, s.newRecord(userID, jti, refresh, nil)); err != nil {
		return "", "", fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.Debug("Token service: issued token pair", "user_id", userID)

	return access, refresh, nil
}

// Refresh rotates a presented refresh token: the old record is revoked and a
// new pair is issued. Revoked, expired, and tampered tokens are rejected with
// the corresponding sentinel error.
func (s *TokenService) Refresh(ctx context.Context, presented string) (string, string, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return "", "", err
	}

	record, err := s.tokens.GetByJTI(ctx, jti)
	if err != nil {
		return "", "", err
	}

	if err := s.checkRecord(record, presented); err != nil {
		s.logger.Warn("Token service: refresh rejected", "user_id", userID, "error", err)
		return "", "", err
	}

	if err := s.tokens.RevokeByJTI(ctx, jti); err != nil {
		return "", "", fmt.Errorf("failed to revoke rotated token: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, newJTI, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.tokens.Create(ctx, s.newRecord(userID, newJTI, refresh, &record.JTI)); err != nil {
		return "", "", fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.Debug("Token service: rotated refresh token", "user_id", userID)

	return access, refresh, nil
}

// RevokeByToken revokes the refresh token presented at logout.
func (s *TokenService) RevokeByToken(ctx context.Context, presented string) error {
	_, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return err
	}

	return s.tokens.RevokeByJTI(ctx, jti)
}

// RevokeAllForUser revokes every live refresh token of the user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.RevokeAllByUser(ctx, userID)
}

// GetUserID validates an access token and returns its subject.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

func (s *TokenService) newRecord(userID uuid.UUID, jti, refresh string, rotatedFrom *string) model.RefreshToken {
	now := time.Now()
	return model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefreshToken(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(refreshRecordTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *TokenService) checkRecord(record model.RefreshToken, presented string) error {
	switch {
	case record.RevokedAt != nil:
		return model.ErrTokenRevoked
	case time.Now().After(record.ExpiresAt):
		return model.ErrTokenExpired
	case subtle.ConstantTimeCompare(record.TokenHash, hashRefreshToken(presented)) != 1:
		return model.ErrTokenMismatch
	}

	return nil
}

func hashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
