package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// QuizService defines quiz creation and reads.
type QuizService interface {
	Create(ctx context.Context, userID, summaryID uuid.UUID, title string, questions []model.QuizQuestion) (model.Quiz, error)
	Get(ctx context.Context, userID, quizID uuid.UUID) (model.Quiz, error)
	ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]model.Quiz, error)
}

// Quiz handles HTTP endpoints for quizzes.
type Quiz struct {
	quizService    QuizService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewQuiz creates a new Quiz handler.
func NewQuiz(quizService QuizService, contextManager model.ContextManager, logger *logger.Logger) *Quiz {
	return &Quiz{
		quizService:    quizService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createQuizRequest struct {
	Title     string               `json:"title"`
	Questions []model.QuizQuestion `json:"questions"`
}

type quizResponse struct {
	ID        string               `json:"id"`
	SummaryID string               `json:"summaryId"`
	Title     string               `json:"title"`
	Questions []model.QuizQuestion `json:"questions"`
	CreatedAt time.Time            `json:"createdAt"`
}

func toQuizResponse(q model.Quiz) quizResponse {
	return quizResponse{
		ID:        q.ID.String(),
		SummaryID: q.SummaryID.String(),
		Title:     q.Title,
		Questions: q.Questions,
		CreatedAt: q.CreatedAt,
	}
}

// Create stores a quiz derived from one of the user's summaries.
func (h *Quiz) Create(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := h.idsFromRequest(w, r, "id")
	if !ok {
		return
	}

	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Questions) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quiz questions are required"})
		return
	}

	quiz, err := h.quizService.Create(r.Context(), userID, summaryID, req.Title, req.Questions)
	if err != nil {
		h.logger.Error("Quiz handler: creation failed",
			"user_id", userID,
			"summary_id", summaryID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuizResponse(quiz))
}

// Get returns one quiz.
func (h *Quiz) Get(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := h.idsFromRequest(w, r, "quizID")
	if !ok {
		return
	}

	quiz, err := h.quizService.Get(r.Context(), userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuizResponse(quiz))
}

// ListBySummary returns the quizzes generated from one summary.
func (h *Quiz) ListBySummary(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := h.idsFromRequest(w, r, "id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListBySummary(r.Context(), userID, summaryID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]quizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, toQuizResponse(q))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Quiz) idsFromRequest(w http.ResponseWriter, r *http.Request, param string) (userID, id uuid.UUID, ok bool) {
	userID, authed := h.contextManager.GetUserIDFromContext(r.Context())
	if !authed {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}
