package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rol-control-plane/config"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/supabase"
	"go.uber.org/zap"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignIn(ctx context.Context, creds services.Credentials) (*supabase.TokenResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.TokenResponse), args.Error(1)
}

func (m *MockAuthenticator) SignUp(ctx context.Context, creds services.Credentials) (*supabase.User, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

var testSessionConfig = config.SessionConfig{
	CookieName:   "rol_session",
	CookieSecure: true,
	CookieMaxAge: 7200,
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "cookie not set", "missing %s", name)
	return nil
}

func TestHandler_HandleSignIn(t *testing.T) {
	creds := services.Credentials{Email: "jugador@rol.gg", Password: "hunter22"}
	form := url.Values{"email": {" jugador@rol.gg "}, "password": {"hunter22"}}

	t.Run("sets cookie and redirects home", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignIn", mock.Anything, creds).Return(&supabase.TokenResponse{
			AccessToken: "jwt",
			ExpiresIn:   3600,
			User:        supabase.User{ID: uuid.New()},
		}, nil)

		w := httptest.NewRecorder()
		handler.HandleSignIn(w, formRequest("/auth/signin", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, HomePath, w.Header().Get("Location"))

		cookie := sessionCookie(t, w, "rol_session")
		assert.Equal(t, "jwt", cookie.Value)
		assert.Equal(t, 3600, cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		authn.AssertExpectations(t)
	})

	t.Run("json body and configured max age", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignIn", mock.Anything, creds).Return(&supabase.TokenResponse{AccessToken: "jwt", ExpiresIn: 86400}, nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"jugador@rol.gg","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := httptest.NewRecorder()
		handler.HandleSignIn(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 7200, sessionCookie(t, w, "rol_session").MaxAge)
	})

	t.Run("wrong password", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignIn", mock.Anything, creds).Return(nil, services.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		handler.HandleSignIn(w, formRequest("/auth/signin", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/auth?error=invalid_credentials", w.Header().Get("Location"))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("auth server down", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignIn", mock.Anything, creds).Return(nil, services.ErrAuthServerUnavailable)

		w := httptest.NewRecorder()
		handler.HandleSignIn(w, formRequest("/auth/signin", form))

		assert.Equal(t, "/auth?error=auth_unavailable", w.Header().Get("Location"))
	})

	t.Run("invalid email", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		w := httptest.NewRecorder()
		handler.HandleSignIn(w, formRequest("/auth/signin", url.Values{"email": {"jugador"}, "password": {"hunter22"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authn.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	})
}

func TestHandler_HandleSignUp(t *testing.T) {
	form := url.Values{"email": {"nuevo@rol.gg"}, "password": {"segura123"}}
	creds := services.Credentials{Email: "nuevo@rol.gg", Password: "segura123"}

	t.Run("redirects to login", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignUp", mock.Anything, creds).Return(&supabase.User{ID: uuid.New()}, nil)

		w := httptest.NewRecorder()
		handler.HandleSignUp(w, formRequest("/auth/signup", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/auth?signed_up=1", w.Header().Get("Location"))
	})

	t.Run("failure", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignUp", mock.Anything, creds).Return(nil, errors.New("email taken"))

		w := httptest.NewRecorder()
		handler.HandleSignUp(w, formRequest("/auth/signup", form))

		assert.Equal(t, "/auth?error=signup_failed", w.Header().Get("Location"))
	})

	t.Run("short password", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		w := httptest.NewRecorder()
		handler.HandleSignUp(w, formRequest("/auth/signup", url.Values{"email": {"nuevo@rol.gg"}, "password": {"abc"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_HandleSignOut(t *testing.T) {
	t.Run("revokes and clears cookie", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignOut", mock.Anything, "jwt").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
		req.AddCookie(&http.Cookie{Name: "rol_session", Value: "jwt"})
		w := httptest.NewRecorder()
		handler.HandleSignOut(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, LoginPath, w.Header().Get("Location"))

		cookie := sessionCookie(t, w, "rol_session")
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
		authn.AssertExpectations(t)
	})

	t.Run("clears cookie when auth server fails", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		authn.On("SignOut", mock.Anything, "jwt").Return(services.ErrAuthServerUnavailable)

		req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
		req.AddCookie(&http.Cookie{Name: "rol_session", Value: "jwt"})
		w := httptest.NewRecorder()
		handler.HandleSignOut(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Empty(t, sessionCookie(t, w, "rol_session").Value)
	})

	t.Run("without cookie", func(t *testing.T) {
		authn := new(MockAuthenticator)
		handler := NewHandler(testSessionConfig, authn, zap.NewNop())

		w := httptest.NewRecorder()
		handler.HandleSignOut(w, httptest.NewRequest(http.MethodPost, "/auth/signout", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		authn.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})
}

func TestHandler_Pages(t *testing.T) {
	handler := NewHandler(config.SessionConfig{}, new(MockAuthenticator), zap.NewNop())

	t.Run("login page echoes error", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.HandleLoginPage(w, httptest.NewRequest(http.MethodGet, "/auth?error=invalid_credentials", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"signin":"/auth/signin","signup":"/auth/signup","signout":"/auth/signout","error":"invalid_credentials"}}`, w.Body.String())
	})

	t.Run("unauthorized page", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.HandleUnauthorized(w, httptest.NewRequest(http.MethodGet, "/unauthorized", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("default cookie name", func(t *testing.T) {
		assert.Equal(t, "session", handler.cfg.CookieName)
	})
}
