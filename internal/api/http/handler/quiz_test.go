package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/harlo-app/harlo-server/internal/api/http/context"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/testutil"
)

type quizHandlerFixture struct {
	service *mockQuizService
	handler *Quiz
	ctx     *httpctx.Manager
	userID  uuid.UUID
}

func newQuizHandlerFixture(t *testing.T) *quizHandlerFixture {
	t.Helper()

	cm := httpctx.NewManager()
	fx := &quizHandlerFixture{
		service: &mockQuizService{},
		ctx:     cm,
		userID:  uuid.New(),
	}
	fx.handler = NewQuiz(fx.service, cm, testutil.MakeNoopLogger())

	t.Cleanup(func() { fx.service.AssertExpectations(t) })

	return fx
}

func (fx *quizHandlerFixture) authed(req *http.Request) *http.Request {
	return req.WithContext(fx.ctx.SetUserIDToContext(req.Context(), fx.userID))
}

func TestQuizHandler_Create(t *testing.T) {
	fx := newQuizHandlerFixture(t)
	summaryID := uuid.New()

	questions := []model.QuizQuestion{
		{Question: "what?", Choices: []string{"a", "b"}, Answer: 0},
	}
	fx.service.On("Create", mock.Anything, fx.userID, summaryID, "chapter one", questions).
		Return(model.Quiz{
			ID:        uuid.New(),
			OwnerID:   fx.userID,
			SummaryID: summaryID,
			Title:     "chapter one",
			Questions: questions,
		}, nil).Once()

	body := `{"title":"chapter one","questions":[{"question":"what?","choices":["a","b"],"answer":0}]}`
	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodPost,
		"/api/v1/summaries/"+summaryID.String()+"/quizzes", strings.NewReader(body))),
		"id", summaryID.String())
	rec := httptest.NewRecorder()
	fx.handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp quizResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, summaryID.String(), resp.SummaryID)
	assert.Len(t, resp.Questions, 1)
}

func TestQuizHandler_Create_NoQuestions(t *testing.T) {
	fx := newQuizHandlerFixture(t)
	summaryID := uuid.New()

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodPost,
		"/api/v1/summaries/"+summaryID.String()+"/quizzes",
		strings.NewReader(`{"title":"empty","questions":[]}`))),
		"id", summaryID.String())
	rec := httptest.NewRecorder()
	fx.handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fx.service.AssertNotCalled(t, "Create",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizHandler_Get_NotFound(t *testing.T) {
	fx := newQuizHandlerFixture(t)
	quizID := uuid.New()

	fx.service.On("Get", mock.Anything, fx.userID, quizID).
		Return(model.Quiz{}, model.ErrNotFound).Once()

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodGet,
		"/api/v1/quizzes/"+quizID.String(), nil)), "quizID", quizID.String())
	rec := httptest.NewRecorder()
	fx.handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizHandler_ListBySummary(t *testing.T) {
	fx := newQuizHandlerFixture(t)
	summaryID := uuid.New()

	fx.service.On("ListBySummary", mock.Anything, fx.userID, summaryID).
		Return([]model.Quiz{
			{ID: uuid.New(), SummaryID: summaryID, Title: "one"},
			{ID: uuid.New(), SummaryID: summaryID, Title: "two"},
		}, nil).Once()

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodGet,
		"/api/v1/summaries/"+summaryID.String()+"/quizzes", nil)), "id", summaryID.String())
	rec := httptest.NewRecorder()
	fx.handler.ListBySummary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []quizResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}
