package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SummaryStore defines persistence operations for summaries.
type SummaryStore interface {
	Create(ctx context.Context, summary Summary) (Summary, error)
	GetByID(ctx context.Context, id uuid.UUID) (Summary, error)
	ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]Summary, error)
	// SetResult transitions a processing summary to ready or error.
	// A summary that already reached a terminal status is left untouched
	// and ErrNotFound is returned: status never reverts to processing.
	SetResult(ctx context.Context, id uuid.UUID, result SummaryResult) (Summary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SummaryStatus enumerates the lifecycle of a summary document.
type SummaryStatus string

const (
	// StatusProcessing means the generation backend has not finished yet.
	StatusProcessing SummaryStatus = "processing"
	// StatusReady means the summary output is available.
	StatusReady SummaryStatus = "ready"
	// StatusError means generation failed; ErrorMessage is set.
	StatusError SummaryStatus = "error"
)

// Terminal reports whether the status is final.
func (s SummaryStatus) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// SourceType enumerates what a summary was generated from.
type SourceType string

const (
	// SourceText is pasted text.
	SourceText SourceType = "text"
	// SourceFile is an uploaded document referenced by storage path.
	SourceFile SourceType = "file"
)

// Resource is a suggested external reference attached to a summary.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Summary represents one submitted source and its derived output.
type Summary struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Status       SummaryStatus
	SourceType   SourceType
	SourcePath   string
	OriginalText string
	SummaryText  string
	KeyPoints    []string
	Roadmap      []string
	Resources    []Resource
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SummaryResult is the asynchronous output written by the generation backend.
type SummaryResult struct {
	Status       SummaryStatus
	SummaryText  string
	KeyPoints    []string
	Roadmap      []string
	Resources    []Resource
	ErrorMessage string
}

// CreateSummaryParams contains parameters to submit a generation request.
type CreateSummaryParams struct {
	OwnerID      uuid.UUID
	SourceType   SourceType
	OriginalText string
	SourcePath   string
	Filename     string
}
