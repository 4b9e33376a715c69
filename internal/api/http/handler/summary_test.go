package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/harlo-app/harlo-server/internal/api/http/context"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/testutil"
	"github.com/harlo-app/harlo-server/internal/watch"
)

type summaryHandlerFixture struct {
	handler *Summary
	service *mockSummaryService
	hub     *watch.Hub
	userID  uuid.UUID
	ctx     *httpctx.Manager
}

func newSummaryHandlerFixture() *summaryHandlerFixture {
	hub := watch.NewHub()
	svc := &mockSummaryService{hub: hub}
	cm := httpctx.NewManager()

	return &summaryHandlerFixture{
		handler: NewSummary(svc, cm, testutil.MakeNoopLogger()),
		service: svc,
		hub:     hub,
		userID:  uuid.New(),
		ctx:     cm,
	}
}

func (fx *summaryHandlerFixture) authed(req *http.Request) *http.Request {
	return req.WithContext(fx.ctx.SetUserIDToContext(req.Context(), fx.userID))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSummaryHandler_Create(t *testing.T) {
	fx := newSummaryHandlerFixture()

	stored := model.Summary{
		ID:         uuid.New(),
		OwnerID:    fx.userID,
		Status:     model.StatusProcessing,
		SourceType: model.SourceText,
	}
	fx.service.On("Create", mock.Anything, model.CreateSummaryParams{
		OwnerID:      fx.userID,
		SourceType:   model.SourceText,
		OriginalText: "a long article",
	}).Return(stored, nil)

	req := fx.authed(httptest.NewRequest(http.MethodPost, "/api/v1/summaries",
		bytes.NewBufferString(`{"sourceType":"text","text":"a long article"}`)))
	rec := httptest.NewRecorder()

	fx.handler.Create(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, stored.ID.String(), resp.ID)
	assert.Equal(t, model.StatusProcessing, resp.Status)
}

func TestSummaryHandler_Get(t *testing.T) {
	fx := newSummaryHandlerFixture()
	summaryID := uuid.New()

	fx.service.On("Get", mock.Anything, fx.userID, summaryID).
		Return(model.Summary{ID: summaryID, OwnerID: fx.userID, Status: model.StatusReady, SummaryText: "short"}, nil)

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodGet, "/api/v1/summaries/"+summaryID.String(), nil)),
		"id", summaryID.String())
	rec := httptest.NewRecorder()

	fx.handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "short", resp.SummaryText)
}

func TestSummaryHandler_Get_InvalidID(t *testing.T) {
	fx := newSummaryHandlerFixture()

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodGet, "/api/v1/summaries/banana", nil)),
		"id", "banana")
	rec := httptest.NewRecorder()

	fx.handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryHandler_Get_NotFound(t *testing.T) {
	fx := newSummaryHandlerFixture()
	summaryID := uuid.New()

	fx.service.On("Get", mock.Anything, fx.userID, summaryID).
		Return(model.Summary{}, model.ErrNotFound)

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodGet, "/api/v1/summaries/"+summaryID.String(), nil)),
		"id", summaryID.String())
	rec := httptest.NewRecorder()

	fx.handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryHandler_ListRecent(t *testing.T) {
	fx := newSummaryHandlerFixture()

	fx.service.On("ListRecent", mock.Anything, fx.userID, 3).
		Return([]model.Summary{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	req := fx.authed(httptest.NewRequest(http.MethodGet, "/api/v1/summaries?limit=3", nil))
	rec := httptest.NewRecorder()

	fx.handler.ListRecent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestSummaryHandler_Delete(t *testing.T) {
	fx := newSummaryHandlerFixture()
	summaryID := uuid.New()

	fx.service.On("Delete", mock.Anything, fx.userID, summaryID).Return(nil)

	req := withURLParam(fx.authed(httptest.NewRequest(http.MethodDelete, "/api/v1/summaries/"+summaryID.String(), nil)),
		"id", summaryID.String())
	rec := httptest.NewRecorder()

	fx.handler.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSummaryHandler_Unauthenticated(t *testing.T) {
	fx := newSummaryHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil)
	rec := httptest.NewRecorder()

	fx.handler.ListRecent(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSummaryHandler_Watch_StreamsEvents(t *testing.T) {
	fx := newSummaryHandlerFixture()
	summaryID := uuid.New()

	fx.service.On("Watch", mock.Anything, fx.userID, summaryID).Return(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fx.handler.Watch(w, withURLParam(fx.authed(r), "id", summaryID.String()))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// A status transition published on the hub arrives on the stream.
	fx.hub.NotifySummary(model.Summary{ID: summaryID, OwnerID: fx.userID, Status: model.StatusReady, SummaryText: "done"})

	reader := bufio.NewReader(resp.Body)
	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var event summaryResponse
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, summaryID.String(), event.ID)
	assert.Equal(t, model.StatusReady, event.Status)
}

func TestSummaryHandler_WatchRecent_InitialSet(t *testing.T) {
	fx := newSummaryHandlerFixture()

	fx.service.On("WatchRecent", mock.Anything, fx.userID, 0).Return(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fx.handler.WatchRecent(w, fx.authed(r))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	fx.hub.NotifyRecent(fx.userID, []model.Summary{{ID: uuid.New(), OwnerID: fx.userID}})

	reader := bufio.NewReader(resp.Body)
	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var rows []summaryResponse
	require.NoError(t, json.Unmarshal([]byte(data), &rows))
	assert.Len(t, rows, 1)
}
