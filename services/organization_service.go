package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

// OrganizationDetail is an organization with its teams
type OrganizationDetail struct {
	*models.Organization
	Teams []*models.Team `json:"teams"`
}

// UpdateTeamInput holds the team fields an organization may change. Nil fields are kept.
type UpdateTeamInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=64"`
	Tag     *string `json:"tag,omitempty" validate:"omitempty,min=2,max=5,alphanum"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// OrganizationService serves esports organizations and their teams
type OrganizationService struct {
	orgs   repositories.OrganizationRepository
	teams  repositories.TeamRepository
	staff  repositories.StaffMemberRepository
	access repositories.AccessRepository
	logger *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	orgs repositories.OrganizationRepository,
	teams repositories.TeamRepository,
	staff repositories.StaffMemberRepository,
	access repositories.AccessRepository,
	logger *zap.Logger,
) *OrganizationService {
	return &OrganizationService{
		orgs:   orgs,
		teams:  teams,
		staff:  staff,
		access: access,
		logger: logger,
	}
}

// List returns a page of organizations ordered by name
func (s *OrganizationService) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	orgs, err := s.orgs.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapRepositoryError("organization", err)
	}
	return orgs, nil
}

// Get returns the organization and its teams
func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*OrganizationDetail, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, WrapRepositoryError("organization", err)
	}

	teams, err := s.teams.GetByOrganizationID(ctx, orgID)
	if err != nil {
		return nil, WrapRepositoryError("team", err)
	}

	return &OrganizationDetail{Organization: org, Teams: teams}, nil
}

// Staff returns the staff members scoped to the organization
func (s *OrganizationService) Staff(ctx context.Context, orgID uuid.UUID) ([]*models.StaffMember, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, WrapRepositoryError("organization", err)
	}

	members, err := s.staff.List(ctx, repositories.StaffFilter{OrganizationID: &orgID})
	if err != nil {
		return nil, WrapRepositoryError("staff member", err)
	}
	return members, nil
}

// UpdateTeam applies input to a team of the organization after can_manage_team
// approves userID for it
func (s *OrganizationService) UpdateTeam(ctx context.Context, userID, orgID, teamID uuid.UUID, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, WrapRepositoryError("team", err)
	}
	if team.OrganizationID == nil || *team.OrganizationID != orgID {
		return nil, NewDomainError(ErrorTypeForbidden, "organization mismatch", nil).
			WithDetail("team_id", teamID.String())
	}

	allowed, err := s.access.CanManageTeam(ctx, teamID, userID)
	if err != nil {
		return nil, WrapInternal("failed to check team access", err)
	}
	if !allowed {
		return nil, NewDomainError(ErrorTypeForbidden, "cannot manage this team", nil)
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Tag != nil {
		team.Tag = *input.Tag
	}
	if input.LogoURL != nil {
		team.LogoURL = input.LogoURL
	}
	team.UpdatedAt = time.Now()

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, WrapRepositoryError("team", err)
	}

	s.logger.Info("team updated",
		zap.String("user_id", userID.String()),
		zap.String("organization_id", orgID.String()),
		zap.String("team_id", teamID.String()))

	return team, nil
}
