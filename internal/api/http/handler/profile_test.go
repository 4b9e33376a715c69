package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/harlo-app/harlo-server/internal/api/http/context"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/testutil"
)

type profileHandlerFixture struct {
	service *mockProfileService
	handler *Profile
	ctx     *httpctx.Manager
	userID  uuid.UUID
}

func newProfileHandlerFixture(t *testing.T) *profileHandlerFixture {
	t.Helper()

	cm := httpctx.NewManager()
	fx := &profileHandlerFixture{
		service: &mockProfileService{},
		ctx:     cm,
		userID:  uuid.New(),
	}
	fx.handler = NewProfile(fx.service, cm, testutil.MakeNoopLogger())

	t.Cleanup(func() { fx.service.AssertExpectations(t) })

	return fx
}

func (fx *profileHandlerFixture) authed(req *http.Request) *http.Request {
	return req.WithContext(fx.ctx.SetUserIDToContext(req.Context(), fx.userID))
}

func TestProfileHandler_Get(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	fx.service.On("Get", mock.Anything, fx.userID).Return(model.Profile{
		ID:          fx.userID,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		DisplayName: "Ada",
		CreatedAt:   time.Now(),
	}, nil).Once()

	rec := httptest.NewRecorder()
	fx.handler.Get(rec, fx.authed(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp profileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fx.userID.String(), resp.ID)
	assert.Equal(t, "ada@example.com", resp.Email)
}

func TestProfileHandler_Get_Unauthenticated(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	rec := httptest.NewRecorder()
	fx.handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	fx.service.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestProfileHandler_UpdateDisplayName(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	fx.service.On("UpdateDisplayName", mock.Anything, fx.userID, "Countess").Return(nil).Once()

	req := fx.authed(httptest.NewRequest(http.MethodPatch, "/api/v1/profile",
		strings.NewReader(`{"displayName":"Countess"}`)))
	rec := httptest.NewRecorder()
	fx.handler.UpdateDisplayName(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProfileHandler_UpdateDisplayName_Empty(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	req := fx.authed(httptest.NewRequest(http.MethodPatch, "/api/v1/profile",
		strings.NewReader(`{"displayName":""}`)))
	rec := httptest.NewRecorder()
	fx.handler.UpdateDisplayName(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fx.service.AssertNotCalled(t, "UpdateDisplayName", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileHandler_SetPhoto(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	fx.service.On("SetPhoto", mock.Anything, fx.userID, mock.Anything, mock.Anything, mock.Anything).
		Return("users/x/profile/1_photo.jpg", nil).Once()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("photo", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := fx.authed(httptest.NewRequest(http.MethodPost, "/api/v1/profile/photo", body))
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	fx.handler.SetPhoto(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp photoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "users/x/profile/1_photo.jpg", resp.PhotoURL)
}

func TestProfileHandler_SetPhoto_MissingFile(t *testing.T) {
	fx := newProfileHandlerFixture(t)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("unrelated", "value"))
	require.NoError(t, form.Close())

	req := fx.authed(httptest.NewRequest(http.MethodPost, "/api/v1/profile/photo", body))
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	fx.handler.SetPhoto(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
