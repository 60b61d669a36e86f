package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

// AccessRepository implements the repositories.AccessRepository interface
// over the access-control functions stored in the database
type AccessRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(db *DB, logger *zap.Logger) repositories.AccessRepository {
	return &AccessRepository{
		db:     db,
		logger: logger,
	}
}

// IsOwner calls is_owner(user_id)
func (r *AccessRepository) IsOwner(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.call(ctx, "is_owner", `SELECT is_owner($1)`, userID)
}

// IsPlatformAdmin calls is_platform_admin(user_id)
func (r *AccessRepository) IsPlatformAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.call(ctx, "is_platform_admin", `SELECT is_platform_admin($1)`, userID)
}

// IsSuperAdmin calls is_super_admin(user_id)
func (r *AccessRepository) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.call(ctx, "is_super_admin", `SELECT is_super_admin($1)`, userID)
}

// CanManageTeam calls can_manage_team(team_id, user_id)
func (r *AccessRepository) CanManageTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return r.call(ctx, "can_manage_team", `SELECT can_manage_team($1, $2)`, teamID, userID)
}

// CanTeamJoinTournament calls can_team_join_tournament(team_id, tournament_id)
func (r *AccessRepository) CanTeamJoinTournament(ctx context.Context, teamID, tournamentID uuid.UUID) (bool, error) {
	return r.call(ctx, "can_team_join_tournament", `SELECT can_team_join_tournament($1, $2)`, teamID, tournamentID)
}

// IsTournamentRegistrationOpen calls is_tournament_registration_open(tournament_id)
func (r *AccessRepository) IsTournamentRegistrationOpen(ctx context.Context, tournamentID uuid.UUID) (bool, error) {
	return r.call(ctx, "is_tournament_registration_open", `SELECT is_tournament_registration_open($1)`, tournamentID)
}

func (r *AccessRepository) call(ctx context.Context, name, query string, args ...interface{}) (bool, error) {
	var allowed bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&allowed); err != nil {
		return false, fmt.Errorf("failed to call %s: %w", name, err)
	}
	r.logger.Debug("access function called", zap.String("function", name), zap.Bool("result", allowed))
	return allowed, nil
}
