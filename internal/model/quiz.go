package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuizStore defines persistence operations for quizzes.
type QuizStore interface {
	Create(ctx context.Context, quiz Quiz) (Quiz, error)
	GetByID(ctx context.Context, id uuid.UUID) (Quiz, error)
	ListBySummary(ctx context.Context, summaryID uuid.UUID) ([]Quiz, error)
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
}

// Quiz is a set of questions generated from a summary,
// owned by the same user.
type Quiz struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	SummaryID uuid.UUID
	Title     string
	Questions []QuizQuestion
	CreatedAt time.Time
}
