package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// maxPhotoSize caps profile photo uploads.
const maxPhotoSize = 10 << 20

// ProfileService defines profile reads and updates.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error
	SetPhoto(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
}

// Profile handles HTTP endpoints for the user's profile document.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type profileResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"displayName"`
}

type photoResponse struct {
	PhotoURL string `json:"photoUrl"`
}

// Get returns the authenticated user's profile.
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Profile handler: failed to get profile", "user_id", userID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:          profile.ID.String(),
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
		CreatedAt:   profile.CreatedAt,
	})
}

// UpdateDisplayName sets the user's display name.
func (h *Profile) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req updateDisplayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DisplayName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "display name is required"})
		return
	}

	if err := h.profileService.UpdateDisplayName(r.Context(), userID, req.DisplayName); err != nil {
		h.logger.Error("Profile handler: failed to update display name", "user_id", userID, "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetPhoto uploads a new profile photo.
func (h *Profile) SetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "photo file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	path, err := h.profileService.SetPhoto(r.Context(), userID, file, header.Size, contentType)
	if err != nil {
		h.logger.Error("Profile handler: failed to set photo", "user_id", userID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, photoResponse{PhotoURL: path})
}
