package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/summarizer"
	"github.com/harlo-app/harlo-server/internal/watch"
)

// DefaultRecentLimit is how many summaries the recent list shows when
// the caller does not ask for a specific count.
const DefaultRecentLimit = 6

// generateTimeout bounds one background generation run.
const generateTimeout = 10 * time.Minute

// Summary implements submission, reads, deletion and live watching of
// summaries.
type Summary struct {
	summaries model.SummaryStore
	storage   model.Storage
	generator summarizer.Client
	hub       *watch.Hub
	logger    *logger.Logger

	// background tracks detached generation goroutines so tests can
	// wait for them.
	background chan struct{}
}

func NewSummary(
	summaries model.SummaryStore,
	storage model.Storage,
	generator summarizer.Client,
	hub *watch.Hub,
	logger *logger.Logger,
) *Summary {
	return &Summary{
		summaries: summaries,
		storage:   storage,
		generator: generator,
		hub:       hub,
		logger:    logger,
	}
}

var unsafeFilename = regexp.MustCompile(`[^\w.\-]`)

// UploadSource stores an uploaded document under the owner's uploads
// prefix and returns its storage path.
func (s *Summary) UploadSource(ctx context.Context, ownerID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	safeName := unsafeFilename.ReplaceAllString(filename, "_")
	if safeName == "" {
		safeName = "upload"
	}
	path := fmt.Sprintf("users/%s/uploads/%d_%s", ownerID, time.Now().UnixMilli(), safeName)

	if err := s.storage.Upload(ctx, path, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload source document: %w", err)
	}

	return path, nil
}

// Create submits a generation request: a processing record is written
// immediately and returned, and the summarizer fills in the result
// asynchronously.
func (s *Summary) Create(ctx context.Context, params model.CreateSummaryParams) (model.Summary, error) {
	switch params.SourceType {
	case model.SourceText:
		if strings.TrimSpace(params.OriginalText) == "" {
			return model.Summary{}, fmt.Errorf("nothing to process: empty text")
		}
	case model.SourceFile:
		if params.SourcePath == "" {
			return model.Summary{}, fmt.Errorf("nothing to process: no storage path")
		}
	default:
		return model.Summary{}, fmt.Errorf("unknown source type %q", params.SourceType)
	}

	summary, err := s.summaries.Create(ctx, model.Summary{
		ID:           uuid.New(),
		OwnerID:      params.OwnerID,
		Status:       model.StatusProcessing,
		SourceType:   params.SourceType,
		SourcePath:   params.SourcePath,
		OriginalText: params.OriginalText,
	})
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to create summary: %w", err)
	}

	s.publish(ctx, summary)

	done := s.background
	go func() {
		// Generation outlives the submit request.
		genCtx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		s.generate(genCtx, summary, params.Filename)
		if done != nil {
			done <- struct{}{}
		}
	}()

	s.logger.Info("Summary service: generation submitted",
		"summary_id", summary.ID,
		"user_id", params.OwnerID,
		"source_type", params.SourceType)

	return summary, nil
}

// generate calls the backend and writes the terminal result.
func (s *Summary) generate(ctx context.Context, summary model.Summary, filename string) {
	req := summarizer.Request{SourceType: summary.SourceType}

	switch summary.SourceType {
	case model.SourceText:
		req.Content = summary.OriginalText
	case model.SourceFile:
		document, err := s.readSource(ctx, summary.SourcePath)
		if err != nil {
			s.finish(ctx, summary.ID, summary.OwnerID, model.SummaryResult{
				Status:       model.StatusError,
				ErrorMessage: fmt.Sprintf("failed to read uploaded document: %v", err),
			})
			return
		}
		req.Document = document
		req.Filename = filename
	}

	out, err := s.generator.Summarize(ctx, req)
	if err != nil {
		s.logger.Error("Summary service: generation failed",
			"summary_id", summary.ID,
			"error", err.Error())
		s.finish(ctx, summary.ID, summary.OwnerID, model.SummaryResult{
			Status:       model.StatusError,
			ErrorMessage: err.Error(),
		})
		return
	}

	s.finish(ctx, summary.ID, summary.OwnerID, model.SummaryResult{
		Status:      model.StatusReady,
		SummaryText: out.Summary,
		KeyPoints:   out.KeyPoints,
		Roadmap:     out.Roadmap,
		Resources:   out.Resources,
	})
}

func (s *Summary) readSource(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *Summary) finish(ctx context.Context, id, ownerID uuid.UUID, result model.SummaryResult) {
	updated, err := s.summaries.SetResult(ctx, id, result)
	if err != nil {
		// ErrNotFound here means the record was deleted or already
		// terminal; the monotonic-status guard makes this a no-op.
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Summary service: failed to store result",
				"summary_id", id,
				"error", err.Error())
		}
		return
	}

	s.publish(ctx, updated)
}

// Get returns the summary if it belongs to the user.
func (s *Summary) Get(ctx context.Context, userID, summaryID uuid.UUID) (model.Summary, error) {
	summary, err := s.summaries.GetByID(ctx, summaryID)
	if err != nil {
		return model.Summary{}, err
	}
	if summary.OwnerID != userID {
		return model.Summary{}, model.ErrNotFound
	}
	return summary, nil
}

// ListRecent returns the user's most recent summaries, newest first.
func (s *Summary) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Summary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	summaries, err := s.summaries.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}
	return summaries, nil
}

// Delete removes one summary and its uploaded source blob, if any.
func (s *Summary) Delete(ctx context.Context, userID, summaryID uuid.UUID) error {
	summary, err := s.Get(ctx, userID, summaryID)
	if err != nil {
		return err
	}

	if summary.SourcePath != "" {
		if err := s.storage.Delete(ctx, summary.SourcePath); err != nil && !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Summary service: failed to delete source blob",
				"summary_id", summaryID,
				"path", summary.SourcePath,
				"error", err.Error())
		}
	}

	if err := s.summaries.Delete(ctx, summaryID); err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	s.notifyRecent(ctx, userID)

	return nil
}

// Watch subscribes fn to every change of the summary. If the record
// already exists and belongs to the user, fn fires once immediately
// with the current snapshot; a record that does not exist yet produces
// no callback until it is created.
func (s *Summary) Watch(ctx context.Context, userID, summaryID uuid.UUID, fn func(model.Summary)) (*watch.Subscription, error) {
	summary, err := s.summaries.GetByID(ctx, summaryID)
	switch {
	case err == nil:
		if summary.OwnerID != userID {
			return nil, model.ErrNotFound
		}
	case errors.Is(err, model.ErrNotFound):
		// Not created yet: subscribe anyway, the caller shows a
		// loading state until the first publish.
	default:
		return nil, err
	}

	sub := s.hub.SubscribeSummary(summaryID, fn)
	if err == nil {
		fn(summary)
	}
	return sub, nil
}

// WatchRecent subscribes fn to the user's recent list as a whole. The
// current set is delivered once immediately.
func (s *Summary) WatchRecent(ctx context.Context, userID uuid.UUID, limit int, fn func([]model.Summary)) (*watch.ListSubscription, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	sub := s.hub.SubscribeRecent(userID, limit, fn)
	fn(rows)
	return sub, nil
}

// publish pushes a record snapshot to its watchers and refreshes the
// owner's recent list.
func (s *Summary) publish(ctx context.Context, summary model.Summary) {
	s.hub.NotifySummary(summary)
	s.notifyRecent(ctx, summary.OwnerID)
}

func (s *Summary) notifyRecent(ctx context.Context, ownerID uuid.UUID) {
	limits := s.hub.RecentLimits(ownerID)
	if len(limits) == 0 {
		return
	}

	maxLimit := limits[0]
	for _, l := range limits[1:] {
		if l > maxLimit {
			maxLimit = l
		}
	}

	rows, err := s.summaries.ListRecent(ctx, ownerID, maxLimit)
	if err != nil {
		s.logger.Error("Summary service: failed to refresh recent list",
			"user_id", ownerID,
			"error", err.Error())
		return
	}

	s.hub.NotifyRecent(ownerID, rows)
}
