package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
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

type MockAuditLister struct {
	mock.Mock
}

func (m *MockAuditLister) List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func TestAuditHandler_HandleList(t *testing.T) {
	t.Run("filters are forwarded", func(t *testing.T) {
		lister := new(MockAuditLister)
		handler := NewAuditHandler(lister, zap.NewNop())
		staffID := uuid.New()
		member := models.NewStaffMember(uuid.New(), permissions.RoleLeagueCoordinator, nil)
		entry := models.NewAuditLog(uuid.New(), models.AuditActionStaffCreated, member)

		lister.On("List", mock.Anything, repositories.AuditFilter{StaffID: &staffID, Limit: 10}).
			Return([]*models.AuditLog{entry}, nil)

		w := httptest.NewRecorder()
		handler.HandleList(w, newRequest(t, http.MethodGet, "/admin/audit?staff_id="+staffID.String()+"&limit=10", nil, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []*models.AuditLog
		envelope(t, w, &got)
		require.Len(t, got, 1)
		assert.Equal(t, entry.ID, got[0].ID)
		lister.AssertExpectations(t)
	})

	t.Run("invalid actor id", func(t *testing.T) {
		lister := new(MockAuditLister)
		handler := NewAuditHandler(lister, zap.NewNop())

		w := httptest.NewRecorder()
		handler.HandleList(w, newRequest(t, http.MethodGet, "/admin/audit?actor_id=nope", nil, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		lister.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		lister := new(MockAuditLister)
		handler := NewAuditHandler(lister, zap.NewNop())

		lister.On("List", mock.Anything, repositories.AuditFilter{}).Return(nil, errors.New("connection reset"))

		w := httptest.NewRecorder()
		handler.HandleList(w, newRequest(t, http.MethodGet, "/admin/audit", nil, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
