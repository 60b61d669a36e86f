package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"github.com/upb/rol-control-plane/supabase"
)

type txContextKey struct{}

// MockTransactionManager runs fn with a marked context unless an error is configured for Begin
type MockTransactionManager struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txContextKey{}, true), nil); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txContextKey{}).(bool)
	return v
}

type MockStaffMemberRepository struct {
	mock.Mock
}

func (m *MockStaffMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffMemberRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.StaffMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffMemberRepository) List(ctx context.Context, filter repositories.StaffFilter) ([]*models.StaffMember, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StaffMember), args.Error(1)
}

func (m *MockStaffMemberRepository) Create(ctx context.Context, member *models.StaffMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockStaffMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role permissions.StaffRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockStaffMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*models.Team, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) List(ctx context.Context, region *models.Region) ([]*models.Tournament, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) RegisterTeam(ctx context.Context, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error) {
	args := m.Called(ctx, tournamentID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TournamentTeam), args.Error(1)
}

type MockLeagueRepository struct {
	mock.Mock
}

func (m *MockLeagueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.League, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.League), args.Error(1)
}

func (m *MockLeagueRepository) List(ctx context.Context, region *models.Region) ([]*models.League, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.League), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockAccessRepository struct {
	mock.Mock
}

func (m *MockAccessRepository) IsOwner(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsPlatformAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) CanManageTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) CanTeamJoinTournament(ctx context.Context, teamID, tournamentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, tournamentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsTournamentRegistrationOpen(ctx context.Context, tournamentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tournamentID)
	return args.Bool(0), args.Error(1)
}

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) SignIn(ctx context.Context, email, password string) (*supabase.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.TokenResponse), args.Error(1)
}

func (m *MockAuthClient) SignUp(ctx context.Context, email, password string) (*supabase.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockAuthClient) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}
