package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// Quiz implements quiz creation and reads. Quizzes are derived from a
// ready summary and owned by the same user.
type Quiz struct {
	quizzes   model.QuizStore
	summaries model.SummaryStore
	logger    *logger.Logger
}

func NewQuiz(quizzes model.QuizStore, summaries model.SummaryStore, logger *logger.Logger) *Quiz {
	return &Quiz{quizzes: quizzes, summaries: summaries, logger: logger}
}

// Create stores a quiz generated from one of the user's summaries.
func (q *Quiz) Create(ctx context.Context, userID, summaryID uuid.UUID, title string, questions []model.QuizQuestion) (model.Quiz, error) {
	summary, err := q.summaries.GetByID(ctx, summaryID)
	if err != nil {
		return model.Quiz{}, err
	}
	if summary.OwnerID != userID {
		return model.Quiz{}, model.ErrNotFound
	}
	if summary.Status != model.StatusReady {
		return model.Quiz{}, fmt.Errorf("summary %s is not ready", summaryID)
	}

	quiz, err := q.quizzes.Create(ctx, model.Quiz{
		ID:        uuid.New(),
		OwnerID:   userID,
		SummaryID: summaryID,
		Title:     title,
		Questions: questions,
	})
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to create quiz: %w", err)
	}

	q.logger.Info("Quiz service: quiz created", "quiz_id", quiz.ID, "summary_id", summaryID)

	return quiz, nil
}

// Get returns the quiz if it belongs to the user.
func (q *Quiz) Get(ctx context.Context, userID, quizID uuid.UUID) (model.Quiz, error) {
	quiz, err := q.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return model.Quiz{}, err
	}
	if quiz.OwnerID != userID {
		return model.Quiz{}, model.ErrNotFound
	}
	return quiz, nil
}

// ListBySummary returns the quizzes generated from one of the user's
// summaries.
func (q *Quiz) ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]model.Quiz, error) {
	summary, err := q.summaries.GetByID(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	if summary.OwnerID != userID {
		return nil, model.ErrNotFound
	}
	return q.quizzes.ListBySummary(ctx, summaryID)
}
