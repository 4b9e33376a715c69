package model

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ListResult is one level of an object-store listing: the objects
// directly under a prefix and the immediate sub-prefixes below it.
type ListResult struct {
	Objects     []string
	SubPrefixes []string
}

// Storage defines object-store operations.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the immediate objects and sub-prefixes under prefix.
	// A prefix with no content yields an empty result, not an error.
	List(ctx context.Context, prefix string) (ListResult, error)
}

// OwnerPrefixes returns every storage prefix that can hold a user's
// objects. Ownership of blobs is by path convention only, so this is
// the single place both the legacy and the current prefix layouts are
// enumerated.
func OwnerPrefixes(ownerID uuid.UUID) []string {
	return []string{
		fmt.Sprintf("users/%s/", ownerID),
		fmt.Sprintf("uploads/%s/", ownerID),
	}
}
