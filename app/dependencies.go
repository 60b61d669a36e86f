package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/rol-control-plane/auth"
	"github.com/upb/rol-control-plane/config"
	"github.com/upb/rol-control-plane/handlers"
	"github.com/upb/rol-control-plane/middleware"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"github.com/upb/rol-control-plane/repositories/postgres"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/services/audit"
	"github.com/upb/rol-control-plane/services/ratelimit"
	"github.com/upb/rol-control-plane/supabase"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory  *postgres.RepositoryFactory
	Repositories *repositories.Repositories
	TxManager    repositories.TransactionManager

	// Authorization
	Evaluator   *permissions.Evaluator
	AuthClient  *supabase.Client
	Guard       *middleware.RouteGuard
	Permissions *middleware.PermissionMiddleware
	RateLimiter *ratelimit.RateLimitService
	AuthLimit   *middleware.RateLimitMiddleware

	// Services
	AuditService        *audit.AuditService
	StaffService        *services.StaffService
	TournamentService   *services.TournamentService
	LeagueService       *services.LeagueService
	OrganizationService *services.OrganizationService
	IdentityService     *services.IdentityService
	AuthService         *services.AuthService

	// Handlers
	AuthHandler         *auth.Handler
	IdentityHandler     *handlers.IdentityHandler
	StaffHandler        *handlers.StaffHandler
	CompetitionHandler  *handlers.CompetitionHandler
	OrganizationHandler *handlers.OrganizationHandler
	AuditHandler        *handlers.AuditHandler
	HealthHandler       *handlers.HealthHandler
}

// NewDependencies opens the database and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesFromFactory(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesFromFactory wires everything over an existing repository factory
func NewDependenciesFromFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if cfg.Database.InitSchema {
		if err := deps.DB.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		logger.Info("database schema initialized")
	}

	deps.initRepositories()

	if err := deps.initAuthorization(cfg); err != nil {
		return nil, err
	}

	if err := deps.initServices(cfg); err != nil {
		return nil, err
	}
	deps.initHandlers(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repositories = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

// initAuthorization builds the evaluator, the auth client and the route guard.
// A broken permission table is fatal.
func (d *Dependencies) initAuthorization(cfg *config.Config) error {
	table := permissions.DefaultTable()
	if err := table.Validate(); err != nil {
		return fmt.Errorf("invalid permission table: %w", err)
	}
	d.Evaluator = permissions.NewEvaluator(table)

	d.AuthClient = supabase.NewClient(supabase.Config{
		URL:         cfg.Supabase.URL,
		AnonKey:     cfg.Supabase.AnonKey,
		HTTPTimeout: cfg.Supabase.HTTPTimeout,
	})

	guardCfg := middleware.DefaultGuardConfig()
	guardCfg.LoginPath = auth.LoginPath
	guardCfg.HomePath = auth.HomePath
	guardCfg.CookieName = cfg.Session.CookieName
	guardCfg.JWTSecret = cfg.Supabase.JWTSecret
	if guardCfg.JWTSecret == "" {
		d.Logger.Warn("SUPABASE_JWT_SECRET not set, session signatures are checked by the auth server only")
	}

	d.Guard = middleware.NewRouteGuard(guardCfg, d.AuthClient, d.Repositories.StaffMembers, d.Evaluator, d.Logger)
	d.Permissions = middleware.NewPermissionMiddleware(d.Evaluator, d.Logger)

	d.RateLimiter = ratelimit.NewRateLimitService(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.AuthPerMinute,
		Burst:             cfg.RateLimit.AuthBurst,
	}, d.Logger)
	d.AuthLimit = middleware.NewRateLimitMiddleware(d.RateLimiter, d.Logger)
	return nil
}

// initServices builds the domain services and starts the audit workers
func (d *Dependencies) initServices(cfg *config.Config) error {
	repos := d.Repositories

	d.AuditService = audit.NewAuditService(repos.AuditLogs, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := d.AuditService.Start(); err != nil {
		return fmt.Errorf("failed to start audit service: %w", err)
	}

	d.StaffService = services.NewStaffService(repos.StaffMembers, d.AuditService, d.Evaluator, d.Logger)
	d.TournamentService = services.NewTournamentService(repos.Tournaments, repos.Access, d.TxManager, d.Evaluator, d.Logger)
	d.LeagueService = services.NewLeagueService(repos.Leagues, d.Logger)
	d.OrganizationService = services.NewOrganizationService(repos.Organizations, repos.Teams, repos.StaffMembers, repos.Access, d.Logger)
	d.IdentityService = services.NewIdentityService(repos.Profiles, repos.StaffMembers, repos.Access, d.Evaluator, d.Logger)
	d.AuthService = services.NewAuthService(d.AuthClient, d.Logger)
	return nil
}

func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.AuthHandler = auth.NewHandler(cfg.Session, d.AuthService, d.Logger)
	d.IdentityHandler = handlers.NewIdentityHandler(d.IdentityService, d.Logger)
	d.StaffHandler = handlers.NewStaffHandler(d.StaffService, d.Logger)
	d.CompetitionHandler = handlers.NewCompetitionHandler(d.TournamentService, d.LeagueService, d.Logger)
	d.OrganizationHandler = handlers.NewOrganizationHandler(d.OrganizationService, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.AuditService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(map[string]handlers.HealthChecker{
		"database":    d.DB,
		"auth_server": d.AuthClient,
	}, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Drain queued audit entries while the database is still open
	if d.AuditService != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.AuditService.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
		d.AuditService = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
