// Package mocks provides testify mocks for the store and service
// interfaces used across unit tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/harlo-app/harlo-server/internal/model"
)

// AuthUserStore is a mock of model.AuthUserStore.
type AuthUserStore struct {
	mock.Mock
}

func (m *AuthUserStore) Create(ctx context.Context, user model.AuthUser) (model.AuthUser, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.AuthUser), args.Error(1)
}

func (m *AuthUserStore) GetByEmail(ctx context.Context, email string) (model.AuthUser, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.AuthUser), args.Error(1)
}

func (m *AuthUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.AuthUser, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.AuthUser), args.Error(1)
}

func (m *AuthUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProfileStore is a mock of model.ProfileStore.
type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	args := m.Called(ctx, id, displayName)
	return args.Error(0)
}

func (m *ProfileStore) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL string) error {
	args := m.Called(ctx, id, photoURL)
	return args.Error(0)
}

// SummaryStore is a mock of model.SummaryStore.
type SummaryStore struct {
	mock.Mock
}

func (m *SummaryStore) Create(ctx context.Context, summary model.Summary) (model.Summary, error) {
	args := m.Called(ctx, summary)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *SummaryStore) GetByID(ctx context.Context, id uuid.UUID) (model.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *SummaryStore) ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Summary, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Summary), args.Error(1)
}

func (m *SummaryStore) SetResult(ctx context.Context, id uuid.UUID, result model.SummaryResult) (model.Summary, error) {
	args := m.Called(ctx, id, result)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *SummaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// QuizStore is a mock of model.QuizStore.
type QuizStore struct {
	mock.Mock
}

func (m *QuizStore) Create(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	args := m.Called(ctx, quiz)
	return args.Get(0).(model.Quiz), args.Error(1)
}

func (m *QuizStore) GetByID(ctx context.Context, id uuid.UUID) (model.Quiz, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Quiz), args.Error(1)
}

func (m *QuizStore) ListBySummary(ctx context.Context, summaryID uuid.UUID) ([]model.Quiz, error) {
	args := m.Called(ctx, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quiz), args.Error(1)
}

// DocumentStore is a mock of model.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) QueryOwned(ctx context.Context, collection model.Collection, ownerID uuid.UUID) ([]model.DocRef, error) {
	args := m.Called(ctx, collection, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocRef), args.Error(1)
}

func (m *DocumentStore) BatchDelete(ctx context.Context, refs []model.DocRef) error {
	args := m.Called(ctx, refs)
	return args.Error(0)
}

func (m *DocumentStore) DeleteDoc(ctx context.Context, ref model.DocRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
