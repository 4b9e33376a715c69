package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/model"
)

// purgeBatchLimit caps one batch delete, strictly below the store's
// atomic-batch ceiling to leave headroom.
const purgeBatchLimit = 450

// purgeDocuments deletes every document attributable to the owner
// across the legacy and current collections, then the root profile
// document strictly last. Any failure stops the purge before the root
// is touched: it is better to leave the profile in place than to
// orphan dependent records behind a deleted root.
func (d *Deletion) purgeDocuments(ctx context.Context, ownerID uuid.UUID) error {
	for _, collection := range model.OwnerCollections() {
		if err := d.purgeCollection(ctx, collection, ownerID); err != nil {
			return fmt.Errorf("failed to purge collection %q: %w", collection, err)
		}
	}

	if err := d.docs.DeleteDoc(ctx, model.ProfileRef(ownerID)); err != nil {
		return fmt.Errorf("failed to delete root profile document: %w", err)
	}

	d.logger.Info("Deletion service: documents purged", "user_id", ownerID)

	return nil
}

// purgeCollection deletes the owner's documents in one collection in
// sequential batches of at most purgeBatchLimit. An empty query is a
// no-op: no batch is built at all.
func (d *Deletion) purgeCollection(ctx context.Context, collection model.Collection, ownerID uuid.UUID) error {
	refs, err := d.docs.QueryOwned(ctx, collection, ownerID)
	if err != nil {
		return fmt.Errorf("failed to query owned documents: %w", err)
	}
	if len(refs) == 0 {
		return nil
	}

	// Batches share the accumulator slice, so each one must commit
	// before the next is cut.
	for start := 0; start < len(refs); start += purgeBatchLimit {
		end := min(start+purgeBatchLimit, len(refs))
		if err := d.docs.BatchDelete(ctx, refs[start:end]); err != nil {
			return fmt.Errorf("failed to commit delete batch: %w", err)
		}
	}

	d.logger.Debug("Deletion service: collection purged",
		"collection", collection,
		"user_id", ownerID,
		"documents", len(refs))

	return nil
}
