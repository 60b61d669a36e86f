package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/supabase"
	"go.uber.org/zap"
)

// UserFetcher validates an access token against the auth server
type UserFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// StaffLookup finds the staff row of a user
type StaffLookup interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.StaffMember, error)
}

// GuardConfig holds the redirect targets and session settings of the RouteGuard
type GuardConfig struct {
	LoginPath        string
	HomePath         string
	UnauthorizedPath string
	CookieName       string
	// JWTSecret enables signature verification of session tokens when set
	JWTSecret string
}

// DefaultGuardConfig returns the standard routes and cookie name
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:        "/auth",
		HomePath:         "/private",
		UnauthorizedPath: "/unauthorized",
		CookieName:       sessionCookieName,
	}
}

const sessionCookieName = "session"

// roleRule restricts a path and everything below it to the listed roles
type roleRule struct {
	prefix  string
	pattern *regexp.Regexp
	roles   []permissions.StaffRole
}

func newRoleRule(prefix string, roles ...permissions.StaffRole) roleRule {
	return roleRule{
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(/.*)?$`),
		roles:   roles,
	}
}

// roleRules are checked in order; the first match applies.
// Each pattern covers the bare prefix and the prefix with a trailing slash.
var roleRules = []roleRule{
	newRoleRule("/admin", permissions.RoleOwner, permissions.RolePlatformAdmin),
	newRoleRule("/tournaments",
		permissions.RoleOwner,
		permissions.RolePlatformAdmin,
		permissions.RoleTournamentDirector,
		permissions.RoleTournamentCoordinator,
	),
	newRoleRule("/leagues",
		permissions.RoleOwner,
		permissions.RolePlatformAdmin,
		permissions.RoleLeagueDirector,
		permissions.RoleLeagueCoordinator,
	),
	newRoleRule("/staff", permissions.RoleOwner, permissions.RolePlatformAdmin),
}

var organizationPath = regexp.MustCompile(`^/organizations/([^/]+)`)

// RouteGuard authenticates every request and enforces role and organization
// access before the router dispatches it. Denials are 303 redirects.
type RouteGuard struct {
	cfg       GuardConfig
	users     UserFetcher
	staff     StaffLookup
	evaluator *permissions.Evaluator
	logger    *zap.Logger
}

// NewRouteGuard creates a new RouteGuard. Empty paths in cfg fall back to the defaults.
func NewRouteGuard(cfg GuardConfig, users UserFetcher, staff StaffLookup, evaluator *permissions.Evaluator, logger *zap.Logger) *RouteGuard {
	defaults := DefaultGuardConfig()
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaults.LoginPath
	}
	if cfg.HomePath == "" {
		cfg.HomePath = defaults.HomePath
	}
	if cfg.UnauthorizedPath == "" {
		cfg.UnauthorizedPath = defaults.UnauthorizedPath
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaults.CookieName
	}
	return &RouteGuard{
		cfg:       cfg,
		users:     users,
		staff:     staff,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Handler is the middleware installed in front of every route
func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)
		path := r.URL.Path

		rule := matchRoleRule(path)
		orgID, isOrgPath := matchOrganization(path)
		protected := underPath(path, g.cfg.HomePath) || rule != nil || isOrgPath

		session, user := g.resolveSession(r, requestID)
		if session == nil {
			if protected {
				g.redirect(w, r, g.cfg.LoginPath, "no session", requestID)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if path == g.cfg.LoginPath {
			g.redirect(w, r, g.cfg.HomePath, "already signed in", requestID)
			return
		}

		member := g.lookupStaff(ctx, session.UserID, requestID)

		if rule != nil && !g.hasAnyRole(member, rule.roles) {
			g.redirect(w, r, g.cfg.UnauthorizedPath, "role not allowed", requestID)
			return
		}

		if isOrgPath && !canAccessOrganization(member, orgID) {
			g.redirect(w, r, g.cfg.UnauthorizedPath, "organization not allowed", requestID)
			return
		}

		ctx = WithSession(ctx, session)
		ctx = WithUser(ctx, user)
		if member != nil {
			ctx = WithStaffMember(ctx, member)
		}

		g.logger.Debug("request allowed",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.String("user_id", session.UserID.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveSession returns nil when the request carries no usable session
func (g *RouteGuard) resolveSession(r *http.Request, requestID string) (*supabase.Session, *supabase.User) {
	token := extractToken(r, g.cfg.CookieName)
	if token == "" {
		return nil, nil
	}

	session, err := supabase.ParseSession(token, g.cfg.JWTSecret)
	if err != nil {
		g.logger.Warn("invalid session token",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, nil
	}

	user, err := g.users.GetUser(r.Context(), token)
	if err != nil {
		g.logger.Warn("auth server rejected session",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, nil
	}
	if user.ID != session.UserID {
		g.logger.Warn("session subject does not match auth server user",
			zap.String("request_id", requestID),
			zap.String("subject", session.UserID.String()),
			zap.String("user_id", user.ID.String()))
		return nil, nil
	}

	return session, user
}

// lookupStaff returns nil when the user has no staff row or the lookup fails
func (g *RouteGuard) lookupStaff(ctx context.Context, userID uuid.UUID, requestID string) *models.StaffMember {
	member, err := g.staff.GetByUserID(ctx, userID)
	if err != nil {
		g.logger.Warn("staff lookup failed, continuing without role",
			zap.String("request_id", requestID),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return member
}

func (g *RouteGuard) hasAnyRole(member *models.StaffMember, roles []permissions.StaffRole) bool {
	if member == nil {
		return false
	}
	for _, required := range roles {
		if member.Role == required || g.evaluator.InheritsRole(member.Role, required) {
			return true
		}
	}
	return false
}

func (g *RouteGuard) redirect(w http.ResponseWriter, r *http.Request, target, reason, requestID string) {
	g.logger.Debug("request redirected",
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.String("target", target),
		zap.String("reason", reason))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func canAccessOrganization(member *models.StaffMember, orgID string) bool {
	if member == nil {
		return false
	}
	if member.Role == permissions.RoleOwner || member.Role == permissions.RolePlatformAdmin {
		return true
	}
	return member.BelongsTo(orgID)
}

// underPath reports whether path is base or a path below it.
// "/privateer" is not under "/private".
func underPath(path, base string) bool {
	return path == base || strings.HasPrefix(path, strings.TrimSuffix(base, "/")+"/")
}

func matchRoleRule(path string) *roleRule {
	for i := range roleRules {
		if roleRules[i].pattern.MatchString(path) {
			return &roleRules[i]
		}
	}
	return nil
}

func matchOrganization(path string) (string, bool) {
	m := organizationPath.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractToken reads the session cookie, then the Authorization header
func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(r)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
