package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harlo-app/harlo-server/internal/model"
)

var _ model.AuthUserStore = (*AuthUserRepository)(nil)

// AuthUserRepository persists authentication identities.
type AuthUserRepository struct {
	db *Connection
}

func NewAuthUserRepository(db *Connection) *AuthUserRepository {
	return &AuthUserRepository{db: db}
}

func (r *AuthUserRepository) Create(ctx context.Context, user model.AuthUser) (model.AuthUser, error) {
	const query = `
        INSERT INTO auth_users (id, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, email, password_hash, created_at, updated_at
    `

	var saved model.AuthUser
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash).Scan(
		&saved.ID, &saved.Email, &saved.PasswordHash, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("failed to create auth user: %w", err)
	}

	return saved, nil
}

func (r *AuthUserRepository) GetByEmail(ctx context.Context, email string) (model.AuthUser, error) {
	const query = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM auth_users WHERE email = $1
    `

	var user model.AuthUser
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuthUser{}, model.ErrNotFound
		}
		return model.AuthUser{}, fmt.Errorf("failed to get auth user by email: %w", err)
	}

	return user, nil
}

func (r *AuthUserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.AuthUser, error) {
	const query = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM auth_users WHERE id = $1
    `

	var user model.AuthUser
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuthUser{}, model.ErrNotFound
		}
		return model.AuthUser{}, fmt.Errorf("failed to get auth user by id: %w", err)
	}

	return user, nil
}

func (r *AuthUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM auth_users WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
