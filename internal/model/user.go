package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthUserStore defines persistence operations for authentication identities.
type AuthUserStore interface {
	Create(ctx context.Context, user AuthUser) (AuthUser, error)
	GetByEmail(ctx context.Context, email string) (AuthUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (AuthUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthUser is an authentication identity: the credential record the
// auth provider owns. Profile data lives in the document store.
type AuthUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileStore defines persistence operations for root profile documents.
type ProfileStore interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL string) error
}

// Profile is the root document owned by a user. Summaries and quizzes
// reference its ID; the deletion cascade removes it strictly last.
type Profile struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	DisplayName string
	PhotoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
