package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harlo-app/harlo-server/internal/model"
)

var _ model.QuizStore = (*QuizRepository)(nil)

// QuizRepository persists quizzes in the current schema.
type QuizRepository struct {
	db *Connection
}

func NewQuizRepository(db *Connection) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	const query = `
        INSERT INTO user_quizzes (owner_id, id, summary_id, title, questions)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING owner_id, id, summary_id, title, questions, created_at
    `

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to marshal questions: %w", err)
	}

	saved, err := scanQuiz(r.db.QueryRow(ctx, query,
		quiz.OwnerID, quiz.ID, quiz.SummaryID, quiz.Title, questions,
	))
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to create quiz: %w", err)
	}

	return saved, nil
}

func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Quiz, error) {
	const query = `
        SELECT owner_id, id, summary_id, title, questions, created_at
        FROM user_quizzes WHERE id = $1
    `

	quiz, err := scanQuiz(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Quiz{}, model.ErrNotFound
		}
		return model.Quiz{}, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	return quiz, nil
}

func (r *QuizRepository) ListBySummary(ctx context.Context, summaryID uuid.UUID) ([]model.Quiz, error) {
	const query = `
        SELECT owner_id, id, summary_id, title, questions, created_at
        FROM user_quizzes
        WHERE summary_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes by summary: %w", err)
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return quizzes, nil
}

func scanQuiz(row pgx.Row) (model.Quiz, error) {
	var (
		quiz      model.Quiz
		questions []byte
	)

	err := row.Scan(&quiz.OwnerID, &quiz.ID, &quiz.SummaryID, &quiz.Title, &questions, &quiz.CreatedAt)
	if err != nil {
		return model.Quiz{}, err
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
			return model.Quiz{}, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
	}

	return quiz, nil
}
