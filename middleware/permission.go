package middleware

import (
	"net/http"

	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// PermissionMiddleware checks the caller's staff role against the permission
// table. It runs after the RouteGuard and answers with JSON instead of redirects.
type PermissionMiddleware struct {
	evaluator *permissions.Evaluator
	logger    *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(evaluator *permissions.Evaluator, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		evaluator: evaluator,
		logger:    logger,
	}
}

// RequireSession rejects requests the guard did not attach a session to
func (m *PermissionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessionFromContext(r.Context()) == nil {
			m.logger.Warn("missing session",
				zap.String("request_id", GetRequestIDFromContext(r.Context())))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission requires the caller's own role to allow action on resource
func (m *PermissionMiddleware) RequirePermission(resource string, action permissions.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			if GetSessionFromContext(ctx) == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			member := GetStaffMemberFromContext(ctx)
			if member == nil || !m.evaluator.HasResourcePermission(member.Role, resource, action) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("resource", resource),
					zap.String("action", string(action)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			m.logger.Debug("permission check passed",
				zap.String("request_id", requestID),
				zap.String("role", string(member.Role)),
				zap.String("resource", resource),
				zap.String("action", string(action)))

			next.ServeHTTP(w, r)
		})
	}
}

// RequireFeature requires the caller's own role to have feature enabled
func (m *PermissionMiddleware) RequireFeature(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if GetSessionFromContext(ctx) == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			member := GetStaffMemberFromContext(ctx)
			if member == nil || !m.evaluator.HasFeaturePermission(member.Role, feature) {
				m.logger.Warn("feature not enabled for role",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.String("feature", feature))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
