package middleware

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/supabase"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// SessionKey is the context key for the resolved session
	SessionKey contextKey = "session"

	// UserKey is the context key for the auth server user
	UserKey contextKey = "user"

	// StaffMemberKey is the context key for the caller's staff row
	StaffMemberKey contextKey = "staff_member"
)

// GetRequestIDFromContext retrieves the request ID from context.
// Falls back to the id assigned by chi's RequestID middleware.
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return chimiddleware.GetReqID(ctx)
}

// GetSessionFromContext retrieves the session attached by the guard
func GetSessionFromContext(ctx context.Context) *supabase.Session {
	if session, ok := ctx.Value(SessionKey).(*supabase.Session); ok {
		return session
	}
	return nil
}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *supabase.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetUserFromContext retrieves the auth server user
func GetUserFromContext(ctx context.Context) *supabase.User {
	if user, ok := ctx.Value(UserKey).(*supabase.User); ok {
		return user
	}
	return nil
}

// WithUser adds the auth server user to the context
func WithUser(ctx context.Context, user *supabase.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetStaffMemberFromContext returns the caller's staff row, nil when the caller is not staff
func GetStaffMemberFromContext(ctx context.Context) *models.StaffMember {
	if member, ok := ctx.Value(StaffMemberKey).(*models.StaffMember); ok {
		return member
	}
	return nil
}

// WithStaffMember adds the caller's staff row to the context
func WithStaffMember(ctx context.Context, member *models.StaffMember) context.Context {
	return context.WithValue(ctx, StaffMemberKey, member)
}
