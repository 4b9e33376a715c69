package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	servermocks "github.com/harlo-app/harlo-server/internal/mocks"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/testutil"
)

type authFixture struct {
	auth     *Auth
	users    *servermocks.AuthUserStore
	profiles *servermocks.ProfileStore
	manager  *servermocks.TokenManager
	refresh  *servermocks.RefreshTokenStore
}

func newAuthFixture() *authFixture {
	users := &servermocks.AuthUserStore{}
	profiles := &servermocks.ProfileStore{}
	manager := &servermocks.TokenManager{}
	refresh := &servermocks.RefreshTokenStore{}

	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(manager, refresh, log)

	return &authFixture{
		auth:     NewAuth(users, profiles, tokens, ReauthLimit{AttemptsPerMinute: 600, Burst: 10}, log),
		users:    users,
		profiles: profiles,
		manager:  manager,
		refresh:  refresh,
	}
}

func (fx *authFixture) expectIssue(userID uuid.UUID) {
	fx.manager.On("GenerateAccessToken", userID).Return("access-token", nil)
	fx.manager.On("GenerateRefreshToken", userID).Return("refresh-token", "jti-1", nil)
	fx.refresh.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.UserID == userID && rt.JTI == "jti-1"
	})).Return(nil)
}

func TestAuth_Register(t *testing.T) {
	fx := newAuthFixture()

	fx.users.On("GetByEmail", mock.Anything, "new@example.com").
		Return(model.AuthUser{}, model.ErrNotFound)

	createdID := uuid.New()
	fx.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.AuthUser) bool {
		return u.Email == "new@example.com" &&
			bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("Sup3r$ecret")) == nil
	})).Return(model.AuthUser{ID: createdID, Email: "new@example.com"}, nil)

	fx.profiles.On("Create", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
		return p.Email == "new@example.com" && p.DisplayName == "Ada Lovelace"
	})).Return(model.Profile{}, nil)

	fx.manager.On("GenerateAccessToken", mock.Anything).Return("access-token", nil)
	fx.manager.On("GenerateRefreshToken", mock.Anything).Return("refresh-token", "jti-1", nil)
	fx.refresh.On("Create", mock.Anything, mock.Anything).Return(nil)

	sess, creds, err := fx.auth.Register(context.Background(), RegisterParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " New@Example.com ",
		Password:  "Sup3r$ecret",
	})
	require.NoError(t, err)

	assert.Equal(t, createdID, sess.UserID)
	assert.Equal(t, "new@example.com", sess.Email)
	assert.Equal(t, "access-token", creds.AccessToken)
	assert.Equal(t, "refresh-token", creds.RefreshToken)
	fx.profiles.AssertExpectations(t)
}

func TestAuth_Register_InvalidEmail(t *testing.T) {
	fx := newAuthFixture()

	for _, email := range []string{"", "plain", "@no-local.com", "user@", "user@nodot"} {
		_, _, err := fx.auth.Register(context.Background(), RegisterParams{
			Email:    email,
			Password: "Sup3r$ecret",
		})
		assert.ErrorIs(t, err, model.ErrInvalidEmail, "email %q", email)
	}
	fx.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_PasswordPolicy(t *testing.T) {
	fx := newAuthFixture()

	tests := []struct {
		name     string
		password string
	}{
		{name: "too short", password: "Ab1$"},
		{name: "too long", password: "Abcdefg1$Abcdefg1$Abc"},
		{name: "no upper case", password: "abcdefg1$"},
		{name: "no lower case", password: "ABCDEFG1$"},
		{name: "no digit", password: "Abcdefgh$"},
		{name: "no symbol", password: "Abcdefgh1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.auth.Register(context.Background(), RegisterParams{
				Email:    "user@example.com",
				Password: tt.password,
			})
			assert.ErrorIs(t, err, model.ErrWeakPassword)
		})
	}
	fx.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	fx := newAuthFixture()

	fx.users.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(model.AuthUser{ID: uuid.New(), Email: "taken@example.com"}, nil)

	_, _, err := fx.auth.Register(context.Background(), RegisterParams{
		Email:    "taken@example.com",
		Password: "Sup3r$ecret",
	})
	require.ErrorIs(t, err, model.ErrEmailTaken)
	fx.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Login(t *testing.T) {
	fx := newAuthFixture()

	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), bcrypt.MinCost)
	require.NoError(t, err)

	fx.users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(model.AuthUser{ID: userID, Email: "user@example.com", PasswordHash: hash}, nil)
	fx.expectIssue(userID)

	sess, creds, err := fx.auth.Login(context.Background(), "User@Example.com", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.NotEmpty(t, creds.AccessToken)
	assert.False(t, sess.Fresh(time.Now()), "login alone does not satisfy the re-auth gate")
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	fx := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), bcrypt.MinCost)
	require.NoError(t, err)

	fx.users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(model.AuthUser{ID: uuid.New(), PasswordHash: hash}, nil)

	_, _, err = fx.auth.Login(context.Background(), "user@example.com", "nope")
	require.ErrorIs(t, err, model.ErrWrongCredential)
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	fx := newAuthFixture()

	fx.users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(model.AuthUser{}, model.ErrNotFound)

	_, _, err := fx.auth.Login(context.Background(), "ghost@example.com", "Sup3r$ecret")
	// Unknown account and wrong password are indistinguishable.
	require.ErrorIs(t, err, model.ErrWrongCredential)
}

func TestAuth_Reauthenticate_MarksSessionFresh(t *testing.T) {
	fx := newAuthFixture()

	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), bcrypt.MinCost)
	require.NoError(t, err)

	fx.users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(model.AuthUser{ID: userID, Email: "user@example.com", PasswordHash: hash}, nil)

	sess := model.NewSession(userID, "user@example.com")
	require.False(t, sess.Fresh(time.Now()))

	require.NoError(t, fx.auth.Reauthenticate(context.Background(), sess, "Sup3r$ecret"))
	assert.True(t, sess.Fresh(time.Now()))
}

func TestAuth_Reauthenticate_EmptyPassword(t *testing.T) {
	fx := newAuthFixture()

	sess := model.NewSession(uuid.New(), "user@example.com")
	err := fx.auth.Reauthenticate(context.Background(), sess, "")
	require.ErrorIs(t, err, model.ErrEmptyPassword)
	fx.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuth_Reauthenticate_MissingEmail(t *testing.T) {
	fx := newAuthFixture()

	sess := model.NewSession(uuid.New(), "")
	err := fx.auth.Reauthenticate(context.Background(), sess, "Sup3r$ecret")
	require.ErrorIs(t, err, model.ErrMissingEmail)
}

func TestAuth_DeleteIdentity_StaleSession(t *testing.T) {
	fx := newAuthFixture()

	sess := model.NewSession(uuid.New(), "user@example.com")
	sess.MarkReauthenticated(time.Now().Add(-model.ReauthFreshness - time.Second))

	err := fx.auth.DeleteIdentity(context.Background(), sess)
	require.ErrorIs(t, err, model.ErrRequiresRecentLogin)
	fx.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAuth_DeleteIdentity_RevokeFailureIsNotFatal(t *testing.T) {
	fx := newAuthFixture()

	userID := uuid.New()
	fx.users.On("Delete", mock.Anything, userID).Return(nil)
	fx.refresh.On("RevokeAllByUser", mock.Anything, userID).Return(errors.New("store down"))

	sess := model.NewSession(userID, "user@example.com")
	sess.MarkReauthenticated(time.Now())

	// The identity is gone; a failed token revocation is only logged.
	require.NoError(t, fx.auth.DeleteIdentity(context.Background(), sess))
	fx.users.AssertExpectations(t)
}
