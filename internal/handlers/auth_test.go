package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/dto"
	apierrors "github.com/yukikurage/join-board/internal/errors"
	"github.com/yukikurage/join-board/internal/kvstore"
)

func newAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/guest", handler.GuestLogin)
	return r
}

func postJSON(r http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	r := newAuthRouter(NewAuthHandler(env.authService))

	payload := map[string]string{
		"name":            "Anna Berg",
		"email":           "anna@example.com",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
	}
	w := postJSON(r, "/api/auth/signup", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, payload["email"], response.Email)
	assert.Equal(t, "AB", response.Initials)
}

func TestAuthHandler_SignupRejects(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	env.createUser(t, "taken@example.com")
	r := newAuthRouter(NewAuthHandler(env.authService))

	tests := []struct {
		name     string
		payload  map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing fields",
			payload:  map[string]string{"name": "Anna"},
			wantCode: http.StatusBadRequest,
			wantErr:  apierrors.ErrCodeInvalidInput,
		},
		{
			name:     "no uppercase letter",
			payload:  map[string]string{"name": "Anna", "email": "a@example.com", "password": "secret123", "confirmPassword": "secret123"},
			wantCode: http.StatusBadRequest,
			wantErr:  apierrors.ErrCodeWeakPassword,
		},
		{
			name:     "confirmation mismatch",
			payload:  map[string]string{"name": "Anna", "email": "a@example.com", "password": "Secret123", "confirmPassword": "Secret124"},
			wantCode: http.StatusBadRequest,
			wantErr:  apierrors.ErrCodeInvalidInput,
		},
		{
			name:     "invalid email",
			payload:  map[string]string{"name": "Anna", "email": "not-an-email", "password": "Secret123", "confirmPassword": "Secret123"},
			wantCode: http.StatusBadRequest,
			wantErr:  apierrors.ErrCodeInvalidInput,
		},
		{
			name:     "email taken",
			payload:  map[string]string{"name": "Anna", "email": "taken@example.com", "password": "Secret123", "confirmPassword": "Secret123"},
			wantCode: http.StatusConflict,
			wantErr:  apierrors.ErrCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/auth/signup", tt.payload)
			assert.Equal(t, tt.wantCode, w.Code)

			var apiErr apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.wantErr, apiErr.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	env.createUser(t, "existing@example.com")
	r := newAuthRouter(NewAuthHandler(env.authService))

	w := postJSON(r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "Secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "existing@example.com", response.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	env.createUser(t, "existing@example.com")
	r := newAuthRouter(NewAuthHandler(env.authService))

	w := postJSON(r, "/api/auth/login", map[string]string{"email": "existing@example.com", "password": "Nope12345"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = postJSON(r, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginStoreUnavailable(t *testing.T) {
	env := newTestEnv(t, unreachableStore{}, nil)
	r := newAuthRouter(NewAuthHandler(env.authService))

	w := postJSON(r, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandler_GuestLogin(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	r := newAuthRouter(NewAuthHandler(env.authService))

	first := postJSON(r, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := postJSON(r, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b dto.UserDTO
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.True(t, a.Guest)
	assert.Equal(t, a.ID, b.ID, "guests share one account")
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	handler := NewAuthHandler(env.authService)
	user := env.createUser(t, "current@example.com")

	c, w := createAuthContext(http.MethodGet, "/api/auth/me", nil, user.ID)
	handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.ID)
	assert.Equal(t, user.Name, response.Name)
}

func TestAuthHandler_GetCurrentUserDeleted(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	handler := NewAuthHandler(env.authService)

	_, err := env.authService.GetUser(context.Background(), 42)
	require.Error(t, err)

	c, w := createAuthContext(http.MethodGet, "/api/auth/me", nil, 42)
	handler.GetCurrentUser(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
