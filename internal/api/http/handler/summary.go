package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/watch"
)

// maxUploadSize caps source document uploads.
const maxUploadSize = 50 << 20

// SummaryService defines summary submission, reads and live watching.
type SummaryService interface {
	Create(ctx context.Context, params model.CreateSummaryParams) (model.Summary, error)
	Get(ctx context.Context, userID, summaryID uuid.UUID) (model.Summary, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Summary, error)
	Delete(ctx context.Context, userID, summaryID uuid.UUID) error
	UploadSource(ctx context.Context, ownerID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Watch(ctx context.Context, userID, summaryID uuid.UUID, fn func(model.Summary)) (*watch.Subscription, error)
	WatchRecent(ctx context.Context, userID uuid.UUID, limit int, fn func([]model.Summary)) (*watch.ListSubscription, error)
}

// Summary handles HTTP endpoints for summaries, including the
// server-sent-event watch streams.
type Summary struct {
	summaryService SummaryService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSummary creates a new Summary handler.
func NewSummary(summaryService SummaryService, contextManager model.ContextManager, logger *logger.Logger) *Summary {
	return &Summary{
		summaryService: summaryService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createSummaryRequest struct {
	SourceType model.SourceType `json:"sourceType"`
	Text       string           `json:"text,omitempty"`
	SourcePath string           `json:"sourcePath,omitempty"`
	Filename   string           `json:"filename,omitempty"`
}

type summaryResponse struct {
	ID           string              `json:"id"`
	Status       model.SummaryStatus `json:"status"`
	SourceType   model.SourceType    `json:"sourceType"`
	SummaryText  string              `json:"summaryText,omitempty"`
	KeyPoints    []string            `json:"keyPoints,omitempty"`
	Roadmap      []string            `json:"roadmap,omitempty"`
	Resources    []model.Resource    `json:"resources,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type uploadResponse struct {
	Path string `json:"path"`
}

func toSummaryResponse(s model.Summary) summaryResponse {
	return summaryResponse{
		ID:           s.ID.String(),
		Status:       s.Status,
		SourceType:   s.SourceType,
		SummaryText:  s.SummaryText,
		KeyPoints:    s.KeyPoints,
		Roadmap:      s.Roadmap,
		Resources:    s.Resources,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
	}
}

func toSummaryResponses(rows []model.Summary) []summaryResponse {
	out := make([]summaryResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

// Upload stores a source document and returns its storage path for a
// subsequent Create call.
func (h *Summary) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body"})
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "document file is required"})
		return
	}
	defer file.Close()

	path, err := h.summaryService.UploadSource(r.Context(),
		userID, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("Summary handler: upload failed", "user_id", userID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Path: path})
}

// Create submits a generation request and returns the processing record.
func (h *Summary) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req createSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	summary, err := h.summaryService.Create(r.Context(), model.CreateSummaryParams{
		OwnerID:      userID,
		SourceType:   req.SourceType,
		OriginalText: req.Text,
		SourcePath:   req.SourcePath,
		Filename:     req.Filename,
	})
	if err != nil {
		h.logger.Error("Summary handler: submission failed", "user_id", userID, "error", err.Error())
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, toSummaryResponse(summary))
}

// Get returns one summary.
func (h *Summary) Get(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := h.idsFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.summaryService.Get(r.Context(), userID, summaryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// ListRecent returns the user's most recent summaries.
func (h *Summary) ListRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.summaryService.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Summary handler: failed to list recent", "user_id", userID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponses(rows))
}

// Delete removes one summary and its uploaded source.
func (h *Summary) Delete(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := h.idsFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.summaryService.Delete(r.Context(), userID, summaryID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Watch streams every change of one summary as server-sent events. The
// stream starts with the current snapshot if the record exists and
// closes when the client disconnects.
func (h *Summary) Watch(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := h.idsFromRequest(w, r)
	if !ok {
		return
	}

	events := make(chan summaryResponse, 16)
	sub, err := h.summaryService.Watch(r.Context(), userID, summaryID, func(s model.Summary) {
		select {
		case events <- toSummaryResponse(s):
		default:
			// A stalled client skips intermediate states; the next
			// event carries the full current snapshot anyway.
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	defer sub.Unsubscribe()

	streamEvents(h.logger, w, r, events)
}

// WatchRecent streams the user's recent list as server-sent events,
// starting with the current set.
func (h *Summary) WatchRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events := make(chan []summaryResponse, 16)
	sub, err := h.summaryService.WatchRecent(r.Context(), userID, limit, func(rows []model.Summary) {
		select {
		case events <- toSummaryResponses(rows):
		default:
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	defer sub.Unsubscribe()

	streamEvents(h.logger, w, r, events)
}

// streamEvents writes events from the channel as SSE until the client
// goes away.
func streamEvents[T any](log *logger.Logger, w http.ResponseWriter, r *http.Request, events <-chan T) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Error("Summary handler: failed to encode event", "error", err.Error())
				continue
			}
			if _, err := w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// idsFromRequest resolves the authenticated user and the {id} URL
// parameter.
func (h *Summary) idsFromRequest(w http.ResponseWriter, r *http.Request) (userID, summaryID uuid.UUID, ok bool) {
	userID, authed := h.contextManager.GetUserIDFromContext(r.Context())
	if !authed {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return uuid.Nil, uuid.Nil, false
	}

	summaryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid summary id"})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, summaryID, true
}
