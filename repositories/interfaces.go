package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
)

var (
	// ErrNotFound is returned (wrapped) when a row does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned (wrapped) when a unique constraint rejects a write
	ErrDuplicate = errors.New("already exists")

	// ErrTournamentFull is returned when registering into a tournament at capacity
	ErrTournamentFull = errors.New("tournament is full")

	// ErrTransactionRequired is returned by multi-statement writes when ctx carries no transaction
	ErrTransactionRequired = errors.New("operation requires a transaction")
)

// StaffFilter narrows StaffMemberRepository.List. A nil Roles slice means any
// role; an empty non-nil slice matches nothing.
type StaffFilter struct {
	OrganizationID *uuid.UUID
	Roles          []permissions.StaffRole
}

// AuditFilter narrows AuditRepository.List. Limit <= 0 means the default page size.
type AuditFilter struct {
	StaffID *uuid.UUID
	ActorID *uuid.UUID
	Limit   int
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// StaffMemberRepository handles platform staff rows
type StaffMemberRepository interface {
	// GetByID retrieves a staff member by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error)

	// GetByUserID retrieves the staff member record of an auth user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.StaffMember, error)

	// List retrieves staff members matching filter
	List(ctx context.Context, filter StaffFilter) ([]*models.StaffMember, error)

	// Create inserts a new staff member
	Create(ctx context.Context, member *models.StaffMember) error

	// UpdateRole changes the role of a staff member
	UpdateRole(ctx context.Context, id uuid.UUID, role permissions.StaffRole) error

	// Delete removes a staff member
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrganizationRepository handles esports organization rows
type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
}

// TeamRepository handles team rows
type TeamRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*models.Team, error)

	// Update writes name, tag and logo of a team
	Update(ctx context.Context, team *models.Team) error
}

// TournamentRepository handles tournament rows and registrations
type TournamentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error)

	// List retrieves tournaments by start date, optionally filtered by region
	List(ctx context.Context, region *models.Region) ([]*models.Tournament, error)

	// RegisterTeam records the registration and bumps current_teams.
	// It must run inside a transaction carried by ctx.
	RegisterTeam(ctx context.Context, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error)
}

// LeagueRepository handles league rows
type LeagueRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.League, error)
	List(ctx context.Context, region *models.Region) ([]*models.League, error)
}

// ProfileRepository handles user profiles
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AccessRepository calls the access-control functions stored in the database
type AccessRepository interface {
	IsOwner(ctx context.Context, userID uuid.UUID) (bool, error)
	IsPlatformAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	CanManageTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	CanTeamJoinTournament(ctx context.Context, teamID, tournamentID uuid.UUID) (bool, error)
	IsTournamentRegistrationOpen(ctx context.Context, tournamentID uuid.UUID) (bool, error)
}

// AuditRepository stores the trail of staff changes
type AuditRepository interface {
	// Insert stores a single audit entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// List retrieves audit entries matching filter, newest first
	List(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	StaffMembers  StaffMemberRepository
	Organizations OrganizationRepository
	Teams         TeamRepository
	Tournaments   TournamentRepository
	Leagues       LeagueRepository
	Profiles      ProfileRepository
	Access        AccessRepository
	AuditLogs     AuditRepository
}
