package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// Profile implements profile reads and updates.
type Profile struct {
	profiles model.ProfileStore
	storage  model.Storage
	logger   *logger.Logger
}

func NewProfile(profiles model.ProfileStore, storage model.Storage, logger *logger.Logger) *Profile {
	return &Profile{profiles: profiles, storage: storage, logger: logger}
}

// Get returns the user's profile document.
func (p *Profile) Get(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	return p.profiles.GetByID(ctx, userID)
}

// UpdateDisplayName sets the user's display name.
func (p *Profile) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("display name is empty")
	}
	return p.profiles.UpdateDisplayName(ctx, userID, displayName)
}

// SetPhoto uploads a profile photo under the user's prefix and stores
// its path on the profile document.
func (p *Profile) SetPhoto(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	path := fmt.Sprintf("users/%s/profile/%d_photo", userID, time.Now().UnixMilli())

	if err := p.storage.Upload(ctx, path, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := p.profiles.UpdatePhotoURL(ctx, userID, path); err != nil {
		return "", fmt.Errorf("failed to store photo url: %w", err)
	}

	p.logger.Info("Profile service: photo updated", "user_id", userID)

	return path, nil
}
