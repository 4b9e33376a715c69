package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/service"
)

// AuthService defines registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (*model.Session, service.Credentials, error)
	Login(ctx context.Context, email, password string) (*model.Session, service.Credentials, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and returns a token pair.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sess, creds, err := h.authService.Register(r.Context(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed", "error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: registration completed", "user_id", sess.UserID)

	writeJSON(w, http.StatusCreated, tokenResponse{
		UserID:       sess.UserID.String(),
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
}

// Login verifies credentials and returns a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sess, creds, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed", "error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "user_id", sess.UserID)

	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:       sess.UserID.String(),
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
}

// Refresh rotates a refresh token and returns a new pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refresh token is required"})
		return
	}

	access, refresh, err := h.tokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: token refresh failed", "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout revokes the presented refresh token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refresh token is required"})
		return
	}

	if err := h.tokenService.RevokeByToken(r.Context(), req.RefreshToken); err != nil {
		h.logger.Info("Auth handler: logout failed", "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
