package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harlo-app/harlo-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

// DocumentRepository is the generic document surface the deletion
// cascade runs against. Collections map onto tables; the legacy ones
// are filtered by their owner column, the current ones by their
// owner-scoped key.
type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// collectionTable maps a collection to its table and owner column.
// Every table here is keyed by a single id column, so a DocRef is
// enough to address any document.
func collectionTable(collection model.Collection) (table, ownerColumn string, err error) {
	switch collection {
	case model.CollectionSummaries:
		return "summaries", "owner_id", nil
	case model.CollectionQuizzes:
		return "quizzes", "owner_id", nil
	case model.CollectionUserSummaries:
		return "user_summaries", "owner_id", nil
	case model.CollectionUserQuizzes:
		return "user_quizzes", "owner_id", nil
	case model.CollectionUsers:
		return "users", "id", nil
	default:
		return "", "", fmt.Errorf("unknown collection %q", collection)
	}
}

func (r *DocumentRepository) QueryOwned(ctx context.Context, collection model.Collection, ownerID uuid.UUID) ([]model.DocRef, error) {
	table, ownerColumn, err := collectionTable(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 ORDER BY id`, table, ownerColumn)

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s owned by %s: %w", collection, ownerID, err)
	}
	defer rows.Close()

	var refs []model.DocRef
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		refs = append(refs, model.DocRef{Collection: collection, ID: id})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

func (r *DocumentRepository) BatchDelete(ctx context.Context, refs []model.DocRef) error {
	if len(refs) == 0 {
		return nil
	}
	if len(refs) >= model.BatchDeleteHardLimit {
		return fmt.Errorf("batch of %d exceeds the %d mutation ceiling", len(refs), model.BatchDeleteHardLimit)
	}

	batch := &pgx.Batch{}
	for _, ref := range refs {
		table, _, err := collectionTable(ref.Collection)
		if err != nil {
			return err
		}
		batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), ref.ID)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range refs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to execute batch delete: %w", err)
		}
	}

	return nil
}

func (r *DocumentRepository) DeleteDoc(ctx context.Context, ref model.DocRef) error {
	table, _, err := collectionTable(ref.Collection)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), ref.ID); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", ref.Collection, ref.ID, err)
	}

	return nil
}
