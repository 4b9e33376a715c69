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

var _ model.SummaryStore = (*SummaryRepository)(nil)

// SummaryRepository persists summaries in the current schema
// (collection scoped under the owner).
type SummaryRepository struct {
	db *Connection
}

func NewSummaryRepository(db *Connection) *SummaryRepository {
	return &SummaryRepository{db: db}
}

const summaryColumns = `
    owner_id, id, status, source_type, source_path, original_text,
    summary_text, key_points, roadmap, resources, error_message, created_at, updated_at`

func (r *SummaryRepository) Create(ctx context.Context, summary model.Summary) (model.Summary, error) {
	const query = `
        INSERT INTO user_summaries (owner_id, id, status, source_type, source_path, original_text)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + summaryColumns

	row := r.db.QueryRow(ctx, query,
		summary.OwnerID, summary.ID, string(summary.Status),
		string(summary.SourceType), summary.SourcePath, summary.OriginalText,
	)

	saved, err := scanSummary(row)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to create summary: %w", err)
	}

	return saved, nil
}

func (r *SummaryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Summary, error) {
	const query = `SELECT ` + summaryColumns + ` FROM user_summaries WHERE id = $1`

	summary, err := scanSummary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Summary{}, model.ErrNotFound
		}
		return model.Summary{}, fmt.Errorf("failed to get summary by id: %w", err)
	}

	return summary, nil
}

func (r *SummaryRepository) ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Summary, error) {
	// Ordering is stable: creation time descending, id as tiebreak.
	const query = `
        SELECT ` + summaryColumns + `
        FROM user_summaries
        WHERE owner_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *SummaryRepository) SetResult(ctx context.Context, id uuid.UUID, result model.SummaryResult) (model.Summary, error) {
	// The status guard makes the transition monotonic: a summary that
	// already reached ready or error is never moved again.
	const query = `
        UPDATE user_summaries
        SET status = $2, summary_text = $3, key_points = $4, roadmap = $5,
            resources = $6, error_message = $7, updated_at = NOW()
        WHERE id = $1 AND status = 'processing'
        RETURNING ` + summaryColumns

	resources, err := json.Marshal(result.Resources)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to marshal resources: %w", err)
	}
	if result.Resources == nil {
		resources = []byte(`[]`)
	}

	row := r.db.QueryRow(ctx, query,
		id, string(result.Status), result.SummaryText,
		result.KeyPoints, result.Roadmap, resources, result.ErrorMessage,
	)

	summary, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Summary{}, model.ErrNotFound
		}
		return model.Summary{}, fmt.Errorf("failed to set summary result: %w", err)
	}

	return summary, nil
}

func (r *SummaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM user_summaries WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanSummary(row pgx.Row) (model.Summary, error) {
	var (
		summary   model.Summary
		status    string
		srcType   string
		resources []byte
	)

	err := row.Scan(
		&summary.OwnerID, &summary.ID, &status, &srcType,
		&summary.SourcePath, &summary.OriginalText, &summary.SummaryText,
		&summary.KeyPoints, &summary.Roadmap, &resources,
		&summary.ErrorMessage, &summary.CreatedAt, &summary.UpdatedAt,
	)
	if err != nil {
		return model.Summary{}, err
	}

	summary.Status = model.SummaryStatus(status)
	summary.SourceType = model.SourceType(srcType)

	if len(resources) > 0 {
		if err := json.Unmarshal(resources, &summary.Resources); err != nil {
			return model.Summary{}, fmt.Errorf("failed to unmarshal resources: %w", err)
		}
	}

	return summary, nil
}
