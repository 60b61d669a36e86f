package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/rol-control-plane/app"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/utils"
)

// SetupRoutes configures all application routes and middleware.
// The route guard runs in front of every route, so handlers below only see
// requests whose role and organization checks already passed.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.Config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(deps.Guard.Handler)

	perms := deps.Permissions

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Password auth against the hosted auth server
	r.Get("/auth", deps.AuthHandler.HandleLoginPage)
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.AuthLimit.Handler).Post("/signin", deps.AuthHandler.HandleSignIn)
		r.With(deps.AuthLimit.Handler).Post("/signup", deps.AuthHandler.HandleSignUp)
		r.Post("/signout", deps.AuthHandler.HandleSignOut)
	})
	r.Get("/unauthorized", deps.AuthHandler.HandleUnauthorized)

	r.With(perms.RequireSession).Get("/private", deps.IdentityHandler.HandlePrivate)

	// Owner and platform admin only
	r.Route("/admin", func(r chi.Router) {
		r.Use(perms.RequireSession)
		r.With(perms.RequireFeature(permissions.FeatureManageSettings)).
			Get("/permissions", deps.IdentityHandler.HandlePermissionMatrix)
		r.Get("/access/{userID}", deps.IdentityHandler.HandleAccessReport)
		r.With(perms.RequireFeature(permissions.FeatureManageSettings)).
			Get("/audit", deps.AuditHandler.HandleList)
		r.With(perms.RequirePermission(permissions.ResourceOrganizations, permissions.ActionRead)).
			Get("/organizations", deps.OrganizationHandler.HandleList)
	})

	r.Route("/staff/members", func(r chi.Router) {
		r.Use(perms.RequireSession)
		r.With(perms.RequirePermission(permissions.ResourceStaff, permissions.ActionRead)).
			Get("/", deps.StaffHandler.HandleList)
		r.Post("/", deps.StaffHandler.HandleCreate)
		r.Put("/{id}/role", deps.StaffHandler.HandleUpdateRole)
		r.Delete("/{id}", deps.StaffHandler.HandleDelete)
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Use(perms.RequirePermission(permissions.ResourceTournaments, permissions.ActionRead))
		r.Get("/", deps.CompetitionHandler.HandleListTournaments)
		r.Get("/{id}", deps.CompetitionHandler.HandleGetTournament)
		r.Post("/{id}/teams", deps.CompetitionHandler.HandleRegisterTeam)
	})

	r.Route("/leagues", func(r chi.Router) {
		r.Use(perms.RequirePermission(permissions.ResourceLeagues, permissions.ActionRead))
		r.Get("/", deps.CompetitionHandler.HandleListLeagues)
		r.Get("/{id}", deps.CompetitionHandler.HandleGetLeague)
	})

	r.Route("/organizations/{orgID}", func(r chi.Router) {
		r.Use(perms.RequireSession)
		r.Get("/", deps.OrganizationHandler.HandleGet)
		r.Get("/staff", deps.OrganizationHandler.HandleStaff)
		r.Patch("/teams/{teamID}", deps.OrganizationHandler.HandleUpdateTeam)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
