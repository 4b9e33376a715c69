package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

// ReauthLimit bounds password re-verification attempts per user.
type ReauthLimit struct {
	AttemptsPerMinute float64
	Burst             int
}

// Auth implements registration, login, credential re-verification and
// identity deletion against the authentication stores.
type Auth struct {
	authUsers    model.AuthUserStore
	profiles     model.ProfileStore
	tokenService *TokenService
	logger       *logger.Logger

	reauthLimit ReauthLimit
	limitersMu  sync.Mutex
	limiters    map[uuid.UUID]*rate.Limiter
}

func NewAuth(
	authUsers model.AuthUserStore,
	profiles model.ProfileStore,
	tokenService *TokenService,
	reauthLimit ReauthLimit,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authUsers:    authUsers,
		profiles:     profiles,
		tokenService: tokenService,
		logger:       logger,
		reauthLimit:  reauthLimit,
		limiters:     make(map[uuid.UUID]*rate.Limiter),
	}
}

// RegisterParams contains parameters to create an account.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Credentials is an issued access/refresh token pair.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Register creates the authentication identity and the root profile
// document, then issues a token pair.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (*model.Session, Credentials, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if !validEmail(email) {
		return nil, Credentials{}, model.ErrInvalidEmail
	}
	if err := checkPasswordPolicy(params.Password); err != nil {
		return nil, Credentials{}, err
	}

	existing, err := a.authUsers.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, Credentials{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return nil, Credentials{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Credentials{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.authUsers.Create(ctx, model.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create auth user", "email", email, "error", err.Error())
		return nil, Credentials{}, fmt.Errorf("failed to create auth user: %w", err)
	}

	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	_, err = a.profiles.Create(ctx, model.Profile{
		ID:          user.ID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		DisplayName: strings.TrimSpace(firstName + " " + lastName),
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create profile", "user_id", user.ID, "error", err.Error())
		return nil, Credentials{}, fmt.Errorf("failed to create profile: %w", err)
	}

	creds, err := a.issue(ctx, user.ID)
	if err != nil {
		return nil, Credentials{}, err
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID, "email", email)

	return model.NewSession(user.ID, email), creds, nil
}

// Login verifies the password and issues a token pair.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.Session, Credentials, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := a.authUsers.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, Credentials{}, model.ErrWrongCredential
	}
	if err != nil {
		return nil, Credentials{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, Credentials{}, model.ErrWrongCredential
	}

	creds, err := a.issue(ctx, user.ID)
	if err != nil {
		return nil, Credentials{}, err
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return model.NewSession(user.ID, user.Email), creds, nil
}

// Reauthenticate re-verifies the session's password before destructive
// operations. It is purely a gate: no data changes, only the session's
// re-auth freshness. Empty passwords and missing emails are rejected
// before any store access.
func (a *Auth) Reauthenticate(ctx context.Context, sess *model.Session, password string) error {
	if sess == nil || sess.Email == "" {
		return model.ErrMissingEmail
	}
	if password == "" {
		return model.ErrEmptyPassword
	}

	if !a.limiter(sess.UserID).Allow() {
		a.logger.Info("Auth service: re-auth rate limited", "user_id", sess.UserID)
		return model.ErrTooManyAttempts
	}

	user, err := a.authUsers.GetByEmail(ctx, sess.Email)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrWrongCredential
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		a.logger.Info("Auth service: re-auth wrong password", "user_id", sess.UserID)
		return model.ErrWrongCredential
	}

	sess.MarkReauthenticated(time.Now())

	a.logger.Info("Auth service: re-authenticated", "user_id", sess.UserID)

	return nil
}

// DeleteIdentity permanently removes the authentication account. The
// session must have been re-authenticated within the freshness window;
// without that the call fails before touching the store and the caller
// must re-run the re-auth gate.
func (a *Auth) DeleteIdentity(ctx context.Context, sess *model.Session) error {
	if sess == nil || sess.UserID == uuid.Nil {
		return model.ErrMissingEmail
	}
	if !sess.Fresh(time.Now()) {
		return model.ErrRequiresRecentLogin
	}

	if err := a.authUsers.Delete(ctx, sess.UserID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete auth user: %w", err)
	}

	if err := a.tokenService.RevokeAllForUser(ctx, sess.UserID); err != nil {
		a.logger.Error("Auth service: failed to revoke tokens after identity deletion",
			"user_id", sess.UserID,
			"error", err.Error())
	}

	a.logger.Info("Auth service: identity deleted", "user_id", sess.UserID)

	return nil
}

func (a *Auth) issue(ctx context.Context, userID uuid.UUID) (Credentials, error) {
	access, refresh, err := a.tokenService.Issue(ctx, userID)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *Auth) limiter(userID uuid.UUID) *rate.Limiter {
	a.limitersMu.Lock()
	defer a.limitersMu.Unlock()

	l, ok := a.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(a.reauthLimit.AttemptsPerMinute/60.0), a.reauthLimit.Burst)
		a.limiters[userID] = l
	}
	return l
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// checkPasswordPolicy enforces 8-20 characters with upper and lower
// case letters, a digit and a symbol.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return model.ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return model.ErrWeakPassword
	}
	return nil
}
