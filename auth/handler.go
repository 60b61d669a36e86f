package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/upb/rol-control-plane/config"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/supabase"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

const (
	// LoginPath is the login page and the target after sign out
	LoginPath = "/auth"
	// HomePath is the target after a successful sign in
	HomePath = "/private"
)

// Authenticator signs users in and out against the auth server
type Authenticator interface {
	SignIn(ctx context.Context, creds services.Credentials) (*supabase.TokenResponse, error)
	SignUp(ctx context.Context, creds services.Credentials) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// LoginPage describes the auth endpoints for clients
type LoginPage struct {
	SignIn  string `json:"signin"`
	SignUp  string `json:"signup"`
	SignOut string `json:"signout"`
	Error   string `json:"error,omitempty"`
}

// Handler handles the password sign in, sign up and sign out flows.
// Outcomes are 303 redirects so that browser form posts land on a page.
type Handler struct {
	cfg    config.SessionConfig
	auth   Authenticator
	logger *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(cfg config.SessionConfig, auth Authenticator, logger *zap.Logger) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	return &Handler{
		cfg:    cfg,
		auth:   auth,
		logger: logger,
	}
}

// HandleLoginPage handles GET /auth
func (h *Handler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, LoginPage{
		SignIn:  LoginPath + "/signin",
		SignUp:  LoginPath + "/signup",
		SignOut: LoginPath + "/signout",
		Error:   r.URL.Query().Get("error"),
	})
}

// HandleUnauthorized handles GET /unauthorized
func (h *Handler) HandleUnauthorized(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteForbidden(w, "Your role does not allow access to this page")
}

// HandleSignIn handles POST /auth/signin
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	tokens, err := h.auth.SignIn(r.Context(), creds)
	if err != nil {
		if services.IsUnauthorizedError(err) {
			h.redirectWithError(w, r, "invalid_credentials")
			return
		}
		h.redirectWithError(w, r, "auth_unavailable")
		return
	}

	maxAge := h.cfg.CookieMaxAge
	if tokens.ExpiresIn > 0 && (maxAge <= 0 || tokens.ExpiresIn < maxAge) {
		maxAge = tokens.ExpiresIn
	}
	h.setSessionCookie(w, tokens.AccessToken, maxAge)

	h.logger.Info("user signed in", zap.String("user_id", tokens.User.ID.String()))
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// HandleSignUp handles POST /auth/signup. The auth server sends a
// confirmation email, so the user is sent back to the login page.
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	if _, err := h.auth.SignUp(r.Context(), creds); err != nil {
		h.redirectWithError(w, r, "signup_failed")
		return
	}

	http.Redirect(w, r, LoginPath+"?signed_up=1", http.StatusSeeOther)
}

// HandleSignOut handles POST /auth/signout. The cookie is cleared even when
// the auth server cannot be reached.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.auth.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("sign out not confirmed by auth server", zap.Error(err))
		}
	}

	h.setSessionCookie(w, "", -1)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// readCredentials accepts a JSON body or a form post
func (h *Handler) readCredentials(w http.ResponseWriter, r *http.Request) (services.Credentials, bool) {
	var creds services.Credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return creds, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid form", nil)
			return creds, false
		}
		creds.Email = r.PostForm.Get("email")
		creds.Password = r.PostForm.Get("password")
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if err := utils.ValidateStruct(&creds); err != nil {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		_ = utils.WriteBadRequest(w, "Validation failed", details)
		return creds, false
	}
	return creds, true
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	target := LoginPath + "?" + url.Values{"error": {code}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}
