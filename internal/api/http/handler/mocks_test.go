package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/service"
	"github.com/harlo-app/harlo-server/internal/watch"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, params service.RegisterParams) (*model.Session, service.Credentials, error) {
	args := m.Called(ctx, params)
	sess, _ := args.Get(0).(*model.Session)
	return sess, args.Get(1).(service.Credentials), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, service.Credentials, error) {
	args := m.Called(ctx, email, password)
	sess, _ := args.Get(0).(*model.Session)
	return sess, args.Get(1).(service.Credentials), args.Error(2)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) RevokeByToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

type mockProfileService struct {
	mock.Mock
}

func (m *mockProfileService) Get(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *mockProfileService) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error {
	args := m.Called(ctx, userID, displayName)
	return args.Error(0)
}

func (m *mockProfileService) SetPhoto(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, userID, reader, size, contentType)
	return args.String(0), args.Error(1)
}

type mockDeletionService struct {
	mock.Mock
}

func (m *mockDeletionService) Delete(ctx context.Context, sess *model.Session, password string) (model.DeletionResult, error) {
	args := m.Called(ctx, sess, password)
	return args.Get(0).(model.DeletionResult), args.Error(1)
}

type mockSummaryService struct {
	mock.Mock

	hub *watch.Hub
}

func (m *mockSummaryService) Create(ctx context.Context, params model.CreateSummaryParams) (model.Summary, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *mockSummaryService) Get(ctx context.Context, userID, summaryID uuid.UUID) (model.Summary, error) {
	args := m.Called(ctx, userID, summaryID)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *mockSummaryService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Summary, error) {
	args := m.Called(ctx, userID, limit)
	rows, _ := args.Get(0).([]model.Summary)
	return rows, args.Error(1)
}

func (m *mockSummaryService) Delete(ctx context.Context, userID, summaryID uuid.UUID) error {
	args := m.Called(ctx, userID, summaryID)
	return args.Error(0)
}

func (m *mockSummaryService) UploadSource(ctx context.Context, ownerID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, ownerID, filename, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockSummaryService) Watch(ctx context.Context, userID, summaryID uuid.UUID, fn func(model.Summary)) (*watch.Subscription, error) {
	args := m.Called(ctx, userID, summaryID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.hub.SubscribeSummary(summaryID, fn), nil
}

func (m *mockSummaryService) WatchRecent(ctx context.Context, userID uuid.UUID, limit int, fn func([]model.Summary)) (*watch.ListSubscription, error) {
	args := m.Called(ctx, userID, limit)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.hub.SubscribeRecent(userID, limit, fn), nil
}

type mockQuizService struct {
	mock.Mock
}

func (m *mockQuizService) Create(ctx context.Context, userID, summaryID uuid.UUID, title string, questions []model.QuizQuestion) (model.Quiz, error) {
	args := m.Called(ctx, userID, summaryID, title, questions)
	return args.Get(0).(model.Quiz), args.Error(1)
}

func (m *mockQuizService) Get(ctx context.Context, userID, quizID uuid.UUID) (model.Quiz, error) {
	args := m.Called(ctx, userID, quizID)
	return args.Get(0).(model.Quiz), args.Error(1)
}

func (m *mockQuizService) ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]model.Quiz, error) {
	args := m.Called(ctx, userID, summaryID)
	quizzes, _ := args.Get(0).([]model.Quiz)
	return quizzes, args.Error(1)
}
