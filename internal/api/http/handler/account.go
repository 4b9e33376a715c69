package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// DeletionService runs the account-deletion cascade.
type DeletionService interface {
	Delete(ctx context.Context, sess *model.Session, password string) (model.DeletionResult, error)
}

// Account handles the account-deletion endpoint.
type Account struct {
	deletionService DeletionService
	profileService  ProfileService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(
	deletionService DeletionService,
	profileService ProfileService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Account {
	return &Account{
		deletionService: deletionService,
		profileService:  profileService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

type deleteAccountRequest struct {
	// Confirm is the explicit acknowledgement of the destructive
	// warning. The cascade never starts without it.
	Confirm  bool   `json:"confirm"`
	Password string `json:"password"`
}

type deleteAccountResponse struct {
	State           model.DeletionState `json:"state"`
	ObjectsDeleted  int                 `json:"objectsDeleted"`
	ResidualObjects bool                `json:"residualObjects"`
}

// Delete permanently removes the authenticated user's account: blobs,
// documents and the identity itself.
func (h *Account) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !req.Confirm {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "deletion must be explicitly confirmed"})
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Account handler: failed to load profile for deletion",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	sess := model.NewSession(userID, profile.Email)

	result, err := h.deletionService.Delete(r.Context(), sess, req.Password)
	if err != nil {
		h.logger.Error("Account handler: account deletion failed",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Account handler: account deleted",
		"user_id", userID,
		"objects_deleted", result.Storage.Deleted)

	writeJSON(w, http.StatusOK, deleteAccountResponse{
		State:           result.State,
		ObjectsDeleted:  result.Storage.Deleted,
		ResidualObjects: !result.Storage.Clean(),
	})
}
