package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalyst-app/authd/internal/common"
	"github.com/datalyst-app/authd/internal/logging"
	"github.com/datalyst-app/authd/internal/server/accounts"
	"github.com/datalyst-app/authd/internal/server/auth"
)

type fakeAuthService struct {
	signUpMsg string
	signUpErr error

	token     string
	signInErr error

	recoveryMsg string
	recoveryErr error

	confirmMsg string
	confirmErr error

	profile    *accounts.Account
	profileErr error
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, firstName, lastName, password string) (string, error) {
	return f.signUpMsg, f.signUpErr
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	return f.token, f.signInErr
}

func (f *fakeAuthService) RequestRecovery(ctx context.Context, email string) (string, error) {
	return f.recoveryMsg, f.recoveryErr
}

func (f *fakeAuthService) ConfirmRecovery(ctx context.Context, email, code, newPassword string) (string, error) {
	return f.confirmMsg, f.confirmErr
}

func (f *fakeAuthService) GetProfile(ctx context.Context, email string) (*accounts.Account, error) {
	return f.profile, f.profileErr
}

func newTestServer(t *testing.T, svc AuthService) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	return NewServer(":0", l, svc, "test-secret")
}

func doJSON(t *testing.T, s *Server, method, path string, payload any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{})

	w := doJSON(t, s, http.MethodGet, "/api/v1/ping", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestSignUp_OK(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{signUpMsg: "User signed up successfully"})

	w := doJSON(t, s, http.MethodPost, "/api/v1/signup", map[string]string{
		"email": "a@x.com", "first_name": "Ada", "last_name": "Lovelace", "password": "pw1",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User signed up successfully"}`, w.Body.String())
}

func TestSignUp_Duplicate(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{signUpErr: common.ErrorAccountExists})

	w := doJSON(t, s, http.MethodPost, "/api/v1/signup", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestSignUp_BadPayload(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{})

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing email", payload: map[string]string{"password": "pw"}},
		{name: "invalid email", payload: map[string]string{"email": "nope", "password": "pw"}},
		{name: "missing password", payload: map[string]string{"email": "a@x.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/v1/signup", tc.payload, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignIn_OK(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{token: "signed.jwt.token"})

	w := doJSON(t, s, http.MethodPost, "/api/v1/signin", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"signed.jwt.token"}`, w.Body.String())
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{signInErr: common.ErrorInvalidCredentials})

	w := doJSON(t, s, http.MethodPost, "/api/v1/signin", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignIn_StoreDown(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{signInErr: common.ErrorUnavailable})

	w := doJSON(t, s, http.MethodPost, "/api/v1/signin", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestForgotPassword_OK(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{recoveryMsg: "Password reset email sent"})

	w := doJSON(t, s, http.MethodPost, "/api/v1/password/forgot", map[string]string{
		"email": "a@x.com",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Password reset email sent"}`, w.Body.String())
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{recoveryErr: common.ErrorNotFound})

	w := doJSON(t, s, http.MethodPost, "/api/v1/password/forgot", map[string]string{
		"email": "ghost@x.com",
	}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetPassword_OK(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{confirmMsg: "Password reset successfully"})

	w := doJSON(t, s, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"email": "a@x.com", "otp": "123456", "new_password": "pw2",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPassword_WrongCode(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{confirmErr: common.ErrorInvalidRecoveryCode})

	w := doJSON(t, s, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"email": "a@x.com", "otp": "999999", "new_password": "pw2",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{})

	w := doJSON(t, s, http.MethodGet, "/api/v1/me", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RejectsGarbageToken(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{})

	h := http.Header{}
	h.Set("Authorization", "Bearer not.a.jwt")
	w := doJSON(t, s, http.MethodGet, "/api/v1/me", nil, h)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ReturnsProfileForValidToken(t *testing.T) {
	s := newTestServer(t, &fakeAuthService{
		profile: &accounts.Account{Email: "a@x.com", FirstName: "Ada", LastName: "Lovelace"},
	})

	token, err := auth.GenerateToken("a@x.com", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	w := doJSON(t, s, http.MethodGet, "/api/v1/me", nil, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com","first_name":"Ada","last_name":"Lovelace"}`, w.Body.String())
}
