package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

func newStaffService() (*StaffService, *MockStaffMemberRepository) {
	repo := new(MockStaffMemberRepository)
	return NewStaffService(repo, nil, permissions.NewEvaluator(permissions.DefaultTable()), zap.NewNop()), repo
}

func actorWithRole(role permissions.StaffRole) *models.StaffMember {
	return models.NewStaffMember(uuid.New(), role, nil)
}

func TestStaffService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("all members of an organization", func(t *testing.T) {
		svc, repo := newStaffService()
		orgID := uuid.New()
		members := []*models.StaffMember{actorWithRole(permissions.RoleCustomerService)}
		repo.On("List", ctx, repositories.StaffFilter{OrganizationID: &orgID}).Return(members, nil)

		got, err := svc.List(ctx, actorWithRole(permissions.RoleLeagueCoordinator), StaffListOptions{OrganizationID: &orgID})

		require.NoError(t, err)
		assert.Equal(t, members, got)
		repo.AssertExpectations(t)
	})

	t.Run("manageable only filters by directly inherited roles", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("List", ctx, mock.MatchedBy(func(f repositories.StaffFilter) bool {
			return assert.ObjectsAreEqual([]permissions.StaffRole{permissions.RoleTournamentCoordinator}, f.Roles) &&
				f.OrganizationID == nil
		})).Return([]*models.StaffMember{}, nil)

		got, err := svc.List(ctx, actorWithRole(permissions.RoleTournamentDirector), StaffListOptions{ManageableOnly: true})

		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertExpectations(t)
	})

	t.Run("manageable only for a leaf role skips the query", func(t *testing.T) {
		svc, repo := newStaffService()

		got, err := svc.List(ctx, actorWithRole(permissions.RoleCustomerService), StaffListOptions{ManageableOnly: true})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("not staff", func(t *testing.T) {
		svc, _ := newStaffService()

		_, err := svc.List(ctx, nil, StaffListOptions{})

		assert.True(t, IsForbiddenError(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("List", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := svc.List(ctx, actorWithRole(permissions.RoleOwner), StaffListOptions{})

		assert.True(t, IsInternalError(err))
	})
}

func TestStaffService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		actor     permissions.StaffRole
		target    permissions.StaffRole
		wantError func(error) bool
	}{
		{"owner adds platform admin", permissions.RoleOwner, permissions.RolePlatformAdmin, nil},
		{"owner adds coordinator through direct edge", permissions.RoleOwner, permissions.RoleLeagueCoordinator, nil},
		{"platform admin adds director", permissions.RolePlatformAdmin, permissions.RoleTournamentDirector, nil},
		{"platform admin cannot add owner", permissions.RolePlatformAdmin, permissions.RoleOwner, IsForbiddenError},
		{"platform admin cannot add peer", permissions.RolePlatformAdmin, permissions.RolePlatformAdmin, IsForbiddenError},
		{"director lacks rol_staff create", permissions.RoleTournamentDirector, permissions.RoleTournamentCoordinator, IsForbiddenError},
		{"unknown role", permissions.RoleOwner, permissions.StaffRole("coach"), IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newStaffService()
			userID := uuid.New()
			if tt.wantError == nil {
				repo.On("Create", ctx, mock.MatchedBy(func(m *models.StaffMember) bool {
					return m.UserID == userID && m.Role == tt.target
				})).Return(nil)
			}

			member, err := svc.Create(ctx, actorWithRole(tt.actor), CreateStaffInput{UserID: userID, Role: tt.target})

			if tt.wantError != nil {
				require.Error(t, err)
				assert.True(t, tt.wantError(err), "unexpected error %v", err)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, member.Role)
			repo.AssertExpectations(t)
		})
	}

	t.Run("user already staff", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicate))

		_, err := svc.Create(ctx, actorWithRole(permissions.RoleOwner), CreateStaffInput{UserID: uuid.New(), Role: permissions.RoleCustomerService})

		assert.True(t, IsConflictError(err))
	})
}

func TestStaffService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("platform admin promotes coordinator to director", func(t *testing.T) {
		svc, repo := newStaffService()
		target := actorWithRole(permissions.RoleTournamentCoordinator)
		repo.On("GetByID", ctx, id).Return(target, nil)
		repo.On("UpdateRole", ctx, id, permissions.RoleTournamentDirector).Return(nil)

		updated, err := svc.UpdateRole(ctx, actorWithRole(permissions.RolePlatformAdmin), id, permissions.RoleTournamentDirector)

		require.NoError(t, err)
		assert.Equal(t, permissions.RoleTournamentDirector, updated.Role)
		repo.AssertExpectations(t)
	})

	t.Run("cannot promote to an unmanaged role", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("GetByID", ctx, id).Return(actorWithRole(permissions.RoleCustomerService), nil)

		_, err := svc.UpdateRole(ctx, actorWithRole(permissions.RolePlatformAdmin), id, permissions.RoleOwner)

		assert.True(t, IsForbiddenError(err))
		repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cannot touch an unmanaged member", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("GetByID", ctx, id).Return(actorWithRole(permissions.RoleOwner), nil)

		_, err := svc.UpdateRole(ctx, actorWithRole(permissions.RolePlatformAdmin), id, permissions.RoleCustomerService)

		assert.True(t, IsForbiddenError(err))
	})

	t.Run("missing member", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.UpdateRole(ctx, actorWithRole(permissions.RoleOwner), id, permissions.RoleCustomerService)

		assert.True(t, IsNotFoundError(err))
	})
}

func TestStaffService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("owner removes director", func(t *testing.T) {
		svc, repo := newStaffService()
		repo.On("GetByID", ctx, id).Return(actorWithRole(permissions.RoleLeagueDirector), nil)
		repo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, svc.Delete(ctx, actorWithRole(permissions.RoleOwner), id))
		repo.AssertExpectations(t)
	})

	t.Run("platform admin has no delete", func(t *testing.T) {
		svc, repo := newStaffService()

		err := svc.Delete(ctx, actorWithRole(permissions.RolePlatformAdmin), id)

		assert.True(t, IsForbiddenError(err))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

// MockAuditRecorder is a mock implementation of AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) LogStaffCreated(ctx context.Context, actor, member *models.StaffMember) error {
	return m.Called(ctx, actor, member).Error(0)
}

func (m *MockAuditRecorder) LogStaffRoleUpdated(ctx context.Context, actor, member *models.StaffMember, from permissions.StaffRole) error {
	return m.Called(ctx, actor, member, from).Error(0)
}

func (m *MockAuditRecorder) LogStaffDeleted(ctx context.Context, actor, member *models.StaffMember) error {
	return m.Called(ctx, actor, member).Error(0)
}

func TestStaffService_Audit(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	evaluator := permissions.NewEvaluator(permissions.DefaultTable())

	t.Run("create is audited", func(t *testing.T) {
		repo, recorder := new(MockStaffMemberRepository), new(MockAuditRecorder)
		svc := NewStaffService(repo, recorder, evaluator, zap.NewNop())
		actor := actorWithRole(permissions.RoleOwner)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		recorder.On("LogStaffCreated", ctx, actor, mock.AnythingOfType("*models.StaffMember")).Return(nil)

		_, err := svc.Create(ctx, actor, CreateStaffInput{UserID: uuid.New(), Role: permissions.RoleCustomerService})

		require.NoError(t, err)
		recorder.AssertExpectations(t)
	})

	t.Run("role change records the previous role", func(t *testing.T) {
		repo, recorder := new(MockStaffMemberRepository), new(MockAuditRecorder)
		svc := NewStaffService(repo, recorder, evaluator, zap.NewNop())
		actor := actorWithRole(permissions.RolePlatformAdmin)
		target := actorWithRole(permissions.RoleTournamentCoordinator)

		repo.On("GetByID", ctx, id).Return(target, nil)
		repo.On("UpdateRole", ctx, id, permissions.RoleTournamentDirector).Return(nil)
		recorder.On("LogStaffRoleUpdated", ctx, actor, target, permissions.RoleTournamentCoordinator).Return(nil)

		updated, err := svc.UpdateRole(ctx, actor, id, permissions.RoleTournamentDirector)

		require.NoError(t, err)
		assert.Equal(t, permissions.RoleTournamentDirector, updated.Role)
		recorder.AssertExpectations(t)
	})

	t.Run("audit failure does not fail the delete", func(t *testing.T) {
		repo, recorder := new(MockStaffMemberRepository), new(MockAuditRecorder)
		svc := NewStaffService(repo, recorder, evaluator, zap.NewNop())
		actor := actorWithRole(permissions.RoleOwner)
		target := actorWithRole(permissions.RoleLeagueCoordinator)

		repo.On("GetByID", ctx, id).Return(target, nil)
		repo.On("Delete", ctx, id).Return(nil)
		recorder.On("LogStaffDeleted", ctx, actor, target).Return(errors.New("audit event buffer full"))

		require.NoError(t, svc.Delete(ctx, actor, id))
		recorder.AssertExpectations(t)
	})

	t.Run("denied changes are not audited", func(t *testing.T) {
		repo, recorder := new(MockStaffMemberRepository), new(MockAuditRecorder)
		svc := NewStaffService(repo, recorder, evaluator, zap.NewNop())

		_, err := svc.Create(ctx, actorWithRole(permissions.RoleLeagueDirector), CreateStaffInput{UserID: uuid.New(), Role: permissions.RoleOwner})

		assert.True(t, IsForbiddenError(err))
		recorder.AssertNotCalled(t, "LogStaffCreated", mock.Anything, mock.Anything, mock.Anything)
	})
}
