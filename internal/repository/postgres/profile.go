package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harlo-app/harlo-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

// ProfileRepository persists root profile documents.
type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	const query = `
        INSERT INTO users (id, first_name, last_name, email, display_name, photo_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, first_name, last_name, email, display_name, photo_url, created_at, updated_at
    `

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.FirstName, profile.LastName, profile.Email,
		profile.DisplayName, profile.PhotoURL,
	).Scan(
		&saved.ID, &saved.FirstName, &saved.LastName, &saved.Email,
		&saved.DisplayName, &saved.PhotoURL, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return saved, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	const query = `
        SELECT id, first_name, last_name, email, display_name, photo_url, created_at, updated_at
        FROM users WHERE id = $1
    `

	var profile model.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.FirstName, &profile.LastName, &profile.Email,
		&profile.DisplayName, &profile.PhotoURL, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	const query = `UPDATE users SET display_name = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, displayName)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL string) error {
	const query = `UPDATE users SET photo_url = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, photoURL)
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
