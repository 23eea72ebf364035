package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/credisim/credisim-server/internal/api/http/httpctx"
	"github.com/credisim/credisim-server/internal/mocks"
	"github.com/credisim/credisim-server/internal/model"
	"github.com/credisim/credisim-server/internal/service"
	"github.com/credisim/credisim-server/internal/testutil"
	"github.com/credisim/credisim-server/internal/token"
)

func newAuthHandler(userStore model.UserStore) *Auth {
	log := testutil.MakeNoopLogger()
	return NewAuth(
		service.NewAuth(userStore, bcrypt.MinCost, log),
		token.NewJWT("test-secret"),
		log,
	)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthHandler_Register_Success(t *testing.T) {
	userStore := &mocks.UserStore{}
	savedID := uuid.New()
	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: savedID, Email: "a@b.com"}, nil)

	h := newAuthHandler(userStore)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, savedID.String(), body["id"])
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	h := newAuthHandler(&mocks.UserStore{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","password":"123"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ValidationError", body["error"])
	assert.Equal(t, "Password must be at least 6 characters long", body["message"])
}

func TestAuthHandler_Register_RetriesOnceOnConnectionError(t *testing.T) {
	userStore := &mocks.UserStore{}
	savedID := uuid.New()

	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{}, model.ErrNotFound).Twice()
	userStore.On("Create", mock.Anything, mock.Anything).
		Return(model.User{}, model.NewConnectionError("database is unreachable", nil)).Once()
	userStore.On("Create", mock.Anything, mock.Anything).
		Return(model.User{ID: savedID, Email: "a@b.com"}, nil).Once()

	h := newAuthHandler(userStore)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, savedID.String(), body["id"])
	userStore.AssertExpectations(t)
}

func TestAuthHandler_Register_GivesUpAfterSecondConnectionError(t *testing.T) {
	userStore := &mocks.UserStore{}

	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{}, model.ErrNotFound).Twice()
	userStore.On("Create", mock.Anything, mock.Anything).
		Return(model.User{}, model.NewConnectionError("database is unreachable", nil)).Twice()

	h := newAuthHandler(userStore)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ConnectionError", body["error"])
	assert.Contains(t, body["message"], "database is unreachable")
	userStore.AssertExpectations(t)
}

func TestAuthHandler_Register_NoRetryOnValidationError(t *testing.T) {
	userStore := &mocks.UserStore{}
	userStore.On("FindByEmail", mock.Anything, "taken@b.com").
		Return(model.User{ID: uuid.New(), Email: "taken@b.com"}, nil).Once()

	h := newAuthHandler(userStore)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"taken@b.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Email already exists!", body["message"])
	userStore.AssertExpectations(t)
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	userStore := &mocks.UserStore{}
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{
		ID:           userID,
		Email:        "a@b.com",
		PasswordHash: string(hash),
	}, nil)

	h := newAuthHandler(userStore)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, "a@b.com", user["email"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, httpctx.SessionCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	// The cookie must parse back to the same identity.
	identity, err := token.NewJWT("test-secret").ParseSessionToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
}

func TestAuthHandler_Login_FailuresAreServerErrors(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		storedUser  model.User
		storeErr    error
		wantError   string
		wantMessage string
	}{
		{
			name:        "unknown email",
			email:       "ghost@b.com",
			password:    "secret1",
			storeErr:    model.ErrNotFound,
			wantError:   "ValidationError",
			wantMessage: "Email does not exist",
		},
		{
			name:        "empty password",
			email:       "a@b.com",
			password:    "",
			wantError:   "ValidationError",
			wantMessage: "Password is required",
		},
		{
			name:        "store unreachable",
			email:       "a@b.com",
			password:    "secret1",
			storeErr:    model.NewConnectionError("database is unreachable", nil),
			wantError:   "ConnectionError",
			wantMessage: "failed to find user by email: database is unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := &mocks.UserStore{}
			userStore.On("FindByEmail", mock.Anything, tt.email).Return(tt.storedUser, tt.storeErr)

			h := newAuthHandler(userStore)

			payload, err := json.Marshal(credentialsRequest{Email: tt.email, Password: tt.password})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(string(payload)))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	h := newAuthHandler(&mocks.UserStore{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ValidationError", body["error"])
	assert.Equal(t, "invalid request body", body["message"])
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newAuthHandler(&mocks.UserStore{})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Logged out successfully", body["message"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, httpctx.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAuthHandler_Protected(t *testing.T) {
	h := newAuthHandler(&mocks.UserStore{})
	userID := uuid.New()

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		h.Protected(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "No token provided", body["message"])
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: httpctx.SessionCookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		h.Protected(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Failed to authenticate token", body["message"])
	})

	t.Run("valid token", func(t *testing.T) {
		sessionToken, err := token.NewJWT("test-secret").GenerateSessionToken(model.Identity{UserID: userID, Email: "a@b.com"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: httpctx.SessionCookieName, Value: sessionToken})
		rec := httptest.NewRecorder()
		h.Protected(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		user := body["user"].(map[string]any)
		assert.Equal(t, userID.String(), user["id"])
	})
}
