package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/supabase"
)

type MockStaffManager struct {
	mock.Mock
}

func (m *MockStaffManager) List(ctx context.Context, actor *models.StaffMember, opts services.StaffListOptions) ([]*models.StaffMember, error) {
	args := m.Called(ctx, actor, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StaffMember), args.Error(1)
}

func (m *MockStaffManager) Create(ctx context.Context, actor *models.StaffMember, input services.CreateStaffInput) (*models.StaffMember, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffManager) UpdateRole(ctx context.Context, actor *models.StaffMember, id uuid.UUID, role permissions.StaffRole) (*models.StaffMember, error) {
	args := m.Called(ctx, actor, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffManager) Delete(ctx context.Context, actor *models.StaffMember, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockTournamentProvider struct {
	mock.Mock
}

func (m *MockTournamentProvider) List(ctx context.Context, region *models.Region) ([]*models.Tournament, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentProvider) Get(ctx context.Context, id uuid.UUID) (*services.TournamentDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TournamentDetail), args.Error(1)
}

func (m *MockTournamentProvider) RegisterTeam(ctx context.Context, actor *models.StaffMember, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error) {
	args := m.Called(ctx, actor, tournamentID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TournamentTeam), args.Error(1)
}

type MockLeagueProvider struct {
	mock.Mock
}

func (m *MockLeagueProvider) List(ctx context.Context, region *models.Region) ([]*models.League, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.League), args.Error(1)
}

func (m *MockLeagueProvider) Get(ctx context.Context, id uuid.UUID) (*models.League, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.League), args.Error(1)
}

type MockOrganizationProvider struct {
	mock.Mock
}

func (m *MockOrganizationProvider) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationProvider) Get(ctx context.Context, orgID uuid.UUID) (*services.OrganizationDetail, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrganizationDetail), args.Error(1)
}

func (m *MockOrganizationProvider) Staff(ctx context.Context, orgID uuid.UUID) ([]*models.StaffMember, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StaffMember), args.Error(1)
}

func (m *MockOrganizationProvider) UpdateTeam(ctx context.Context, userID, orgID, teamID uuid.UUID, input services.UpdateTeamInput) (*models.Team, error) {
	args := m.Called(ctx, userID, orgID, teamID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) Identity(ctx context.Context, user *supabase.User, member *models.StaffMember) (*services.Identity, error) {
	args := m.Called(ctx, user, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Identity), args.Error(1)
}

func (m *MockIdentityProvider) PermissionMatrix() *services.PermissionMatrix {
	args := m.Called()
	return args.Get(0).(*services.PermissionMatrix)
}

func (m *MockIdentityProvider) AccessReport(ctx context.Context, userID uuid.UUID) (*services.AccessReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AccessReport), args.Error(1)
}

// newRequest builds a request with optional JSON body and chi URL params
func newRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// envelope decodes a SuccessResponse into out
func envelope(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var response struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NoError(t, json.Unmarshal(response.Data, out))
}
