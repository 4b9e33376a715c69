package model

import (
	"context"

	"github.com/google/uuid"
)

// Collection names an owner-scoped document collection. Two schema
// generations coexist: top-level collections filtered by an owner
// field, and collections scoped under the owner's identifier.
type Collection string

const (
	// CollectionSummaries is the legacy top-level summaries collection.
	CollectionSummaries Collection = "summaries"
	// CollectionQuizzes is the legacy top-level quizzes collection.
	CollectionQuizzes Collection = "quizzes"
	// CollectionUserSummaries holds summaries scoped under the owner.
	CollectionUserSummaries Collection = "user_summaries"
	// CollectionUserQuizzes holds quizzes scoped under the owner.
	CollectionUserQuizzes Collection = "user_quizzes"
	// CollectionUsers holds the root profile documents.
	CollectionUsers Collection = "users"
)

// OwnerCollections lists every collection that can hold documents of an
// owner, in purge order. The root profile document is not included: it
// must be deleted strictly after all of these.
func OwnerCollections() []Collection {
	return []Collection{
		CollectionSummaries,
		CollectionQuizzes,
		CollectionUserSummaries,
		CollectionUserQuizzes,
	}
}

// DocRef identifies a single document inside a collection.
type DocRef struct {
	Collection Collection
	ID         uuid.UUID
}

// ProfileRef returns the reference of the owner's root profile document.
func ProfileRef(ownerID uuid.UUID) DocRef {
	return DocRef{Collection: CollectionUsers, ID: ownerID}
}

// DocumentStore is the generic document persistence surface used by the
// deletion cascade. Regular reads and writes go through the typed stores;
// the purge only needs references and bulk deletes.
type DocumentStore interface {
	// QueryOwned returns references to every document in the collection
	// attributable to the owner. An empty result is not an error.
	QueryOwned(ctx context.Context, collection Collection, ownerID uuid.UUID) ([]DocRef, error)

	// BatchDelete removes the referenced documents in one atomic batch.
	// The store enforces a hard per-batch mutation ceiling; callers must
	// stay below it.
	BatchDelete(ctx context.Context, refs []DocRef) error

	// DeleteDoc removes a single document.
	DeleteDoc(ctx context.Context, ref DocRef) error
}

// BatchDeleteHardLimit is the atomic-batch size ceiling of the document
// store. Purge batches must stay strictly below it.
const BatchDeleteHardLimit = 500
