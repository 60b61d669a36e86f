package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

// TournamentDetail is a tournament plus the result of is_tournament_registration_open
type TournamentDetail struct {
	*models.Tournament
	RegistrationOpen bool `json:"registration_open"`
	Full             bool `json:"full"`
}

// TournamentService serves tournament reads and team registration
type TournamentService struct {
	tournaments repositories.TournamentRepository
	access      repositories.AccessRepository
	txManager   repositories.TransactionManager
	evaluator   *permissions.Evaluator
	logger      *zap.Logger
}

// NewTournamentService creates a new TournamentService
func NewTournamentService(
	tournaments repositories.TournamentRepository,
	access repositories.AccessRepository,
	txManager repositories.TransactionManager,
	evaluator *permissions.Evaluator,
	logger *zap.Logger,
) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		access:      access,
		txManager:   txManager,
		evaluator:   evaluator,
		logger:      logger,
	}
}

// List returns tournaments, optionally limited to one region
func (s *TournamentService) List(ctx context.Context, region *models.Region) ([]*models.Tournament, error) {
	if err := validateRegion(region); err != nil {
		return nil, err
	}
	tournaments, err := s.tournaments.List(ctx, region)
	if err != nil {
		return nil, WrapRepositoryError("tournament", err)
	}
	return tournaments, nil
}

// Get returns a tournament with its registration state
func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (*TournamentDetail, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, WrapRepositoryError("tournament", err)
	}

	open, err := s.access.IsTournamentRegistrationOpen(ctx, id)
	if err != nil {
		return nil, WrapInternal("failed to check tournament registration", err)
	}

	return &TournamentDetail{Tournament: tournament, RegistrationOpen: open, Full: tournament.IsFull()}, nil
}

// RegisterTeam enters teamID into the tournament. The actor needs
// tournaments:update; the database decides whether registration is open and
// whether the team is eligible. All checks and writes share one transaction.
func (s *TournamentService) RegisterTeam(ctx context.Context, actor *models.StaffMember, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error) {
	if actor == nil || !s.evaluator.HasResourcePermission(actor.Role, permissions.ResourceTournaments, permissions.ActionUpdate) {
		return nil, NewDomainError(ErrorTypeForbidden, "insufficient permissions", nil).
			WithDetail("resource", permissions.ResourceTournaments).
			WithDetail("action", string(permissions.ActionUpdate))
	}

	registration, err := WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.TournamentTeam, error) {
		if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
			return nil, WrapRepositoryError("tournament", err)
		}

		open, err := s.access.IsTournamentRegistrationOpen(ctx, tournamentID)
		if err != nil {
			return nil, WrapInternal("failed to check tournament registration", err)
		}
		if !open {
			return nil, NewDomainError(ErrorTypeConflict, "tournament registration is closed", nil)
		}

		eligible, err := s.access.CanTeamJoinTournament(ctx, teamID, tournamentID)
		if err != nil {
			return nil, WrapInternal("failed to check team eligibility", err)
		}
		if !eligible {
			return nil, NewDomainError(ErrorTypeForbidden, "team cannot join this tournament", nil).
				WithDetail("team_id", teamID.String())
		}

		registration, err := s.tournaments.RegisterTeam(ctx, tournamentID, teamID)
		switch {
		case errors.Is(err, repositories.ErrTournamentFull):
			return nil, NewDomainError(ErrorTypeConflict, "tournament is full", err)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, NewDomainError(ErrorTypeConflict, "team already registered", err)
		case err != nil:
			return nil, WrapInternal("failed to register team", err)
		}
		return registration, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered for tournament",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("tournament_id", tournamentID.String()),
		zap.String("team_id", teamID.String()))

	return registration, nil
}

// LeagueService serves league reads
type LeagueService struct {
	leagues repositories.LeagueRepository
	logger  *zap.Logger
}

// NewLeagueService creates a new LeagueService
func NewLeagueService(leagues repositories.LeagueRepository, logger *zap.Logger) *LeagueService {
	return &LeagueService{leagues: leagues, logger: logger}
}

// List returns leagues, optionally limited to one region
func (s *LeagueService) List(ctx context.Context, region *models.Region) ([]*models.League, error) {
	if err := validateRegion(region); err != nil {
		return nil, err
	}
	leagues, err := s.leagues.List(ctx, region)
	if err != nil {
		return nil, WrapRepositoryError("league", err)
	}
	return leagues, nil
}

// Get returns one league
func (s *LeagueService) Get(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := s.leagues.GetByID(ctx, id)
	if err != nil {
		return nil, WrapRepositoryError("league", err)
	}
	return league, nil
}

func validateRegion(region *models.Region) error {
	if region != nil && !region.Valid() {
		return NewDomainError(ErrorTypeValidation, "invalid region", nil).WithDetail("region", string(*region))
	}
	return nil
}
