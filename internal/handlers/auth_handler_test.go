package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-dashboard/internal/models"
	"payment-dashboard/internal/services"
)

type stubAuthenticator struct {
	user *models.User
	err  error
	got  *models.LoginRequest
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubTokenIssuer struct {
	token string
	err   error
}

func (s *stubTokenIssuer) GenerateToken(user *models.User) (string, error) {
	return s.token, s.err
}

func postLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	users := &stubAuthenticator{user: &models.User{
		ID:           1,
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         "admin",
	}}
	tokens := &stubTokenIssuer{token: "signed-token"}
	h := NewAuthHandler(users, tokens, zerolog.Nop())

	w := postLogin(t, h, `{"username":"admin","password":"admin123"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "signed-token", resp["access_token"])

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, user, "password_hash")

	require.NotNil(t, users.got)
	assert.Equal(t, "admin", users.got.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	users := &stubAuthenticator{err: services.ErrInvalidCredentials}
	h := NewAuthHandler(users, &stubTokenIssuer{token: "unused"}, zerolog.Nop())

	w := postLogin(t, h, `{"username":"admin","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Invalid credentials", resp["message"])
}

func TestLoginUnknownUserSameResponse(t *testing.T) {
	// Unknown username and wrong password both surface as the same 401.
	users := &stubAuthenticator{err: services.ErrInvalidCredentials}
	h := NewAuthHandler(users, &stubTokenIssuer{token: "unused"}, zerolog.Nop())

	w := postLogin(t, h, `{"username":"nobody","password":"whatever"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Invalid credentials", resp["message"])
}

func TestLoginServiceError(t *testing.T) {
	users := &stubAuthenticator{err: errors.New("connection refused")}
	h := NewAuthHandler(users, &stubTokenIssuer{}, zerolog.Nop())

	w := postLogin(t, h, `{"username":"admin","password":"admin123"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoginBadJSON(t *testing.T) {
	h := NewAuthHandler(&stubAuthenticator{}, &stubTokenIssuer{}, zerolog.Nop())

	w := postLogin(t, h, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
