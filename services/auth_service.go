package services

import (
	"context"
	"errors"

	"github.com/upb/rol-control-plane/supabase"
	"go.uber.org/zap"
)

// AuthClient is the subset of the auth server client used for sign in and out
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (*supabase.TokenResponse, error)
	SignUp(ctx context.Context, email, password string) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Credentials is the sign in / sign up form
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthService maps auth server outcomes onto domain errors
type AuthService struct {
	client AuthClient
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(client AuthClient, logger *zap.Logger) *AuthService {
	return &AuthService{client: client, logger: logger}
}

// SignIn exchanges credentials for a session token
func (s *AuthService) SignIn(ctx context.Context, creds Credentials) (*supabase.TokenResponse, error) {
	tokens, err := s.client.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			return nil, NewDomainError(ErrorTypeUnauthorized, "invalid email or password", err)
		}
		s.logger.Error("sign in failed", zap.Error(err))
		return nil, WrapExternal("auth server unavailable", err)
	}
	return tokens, nil
}

// SignUp registers a new auth user
func (s *AuthService) SignUp(ctx context.Context, creds Credentials) (*supabase.User, error) {
	user, err := s.client.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Error("sign up failed", zap.Error(err))
		return nil, WrapExternal("sign up failed", err)
	}
	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

// SignOut revokes the session. A token the auth server already rejects counts as signed out.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.client.SignOut(ctx, accessToken); err != nil {
		if errors.Is(err, supabase.ErrUnauthorized) {
			return nil
		}
		s.logger.Warn("sign out failed", zap.Error(err))
		return WrapExternal("sign out failed", err)
	}
	return nil
}
