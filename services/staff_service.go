package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

// CreateStaffInput is the payload for adding a staff member
type CreateStaffInput struct {
	UserID         uuid.UUID             `json:"user_id" validate:"required"`
	Role           permissions.StaffRole `json:"role" validate:"required,staff_role"`
	OrganizationID *uuid.UUID            `json:"organization_id,omitempty"`
}

// StaffListOptions narrows List
type StaffListOptions struct {
	OrganizationID *uuid.UUID
	// ManageableOnly keeps members whose role the actor can manage
	ManageableOnly bool
}

// AuditRecorder receives staff changes for the audit trail
type AuditRecorder interface {
	LogStaffCreated(ctx context.Context, actor, member *models.StaffMember) error
	LogStaffRoleUpdated(ctx context.Context, actor, member *models.StaffMember, from permissions.StaffRole) error
	LogStaffDeleted(ctx context.Context, actor, member *models.StaffMember) error
}

// StaffService manages staff_members rows on behalf of an acting staff member.
// Every mutation needs the actor's own permission on rol_staff and a direct
// hierarchy edge from the actor's role to each role it touches.
type StaffService struct {
	staff     repositories.StaffMemberRepository
	audit     AuditRecorder
	evaluator *permissions.Evaluator
	logger    *zap.Logger
}

// NewStaffService creates a new StaffService. audit may be nil.
func NewStaffService(staff repositories.StaffMemberRepository, audit AuditRecorder, evaluator *permissions.Evaluator, logger *zap.Logger) *StaffService {
	return &StaffService{
		staff:     staff,
		audit:     audit,
		evaluator: evaluator,
		logger:    logger,
	}
}

// List returns staff members visible to actor
func (s *StaffService) List(ctx context.Context, actor *models.StaffMember, opts StaffListOptions) ([]*models.StaffMember, error) {
	if err := s.authorize(actor, permissions.ActionRead); err != nil {
		return nil, err
	}

	filter := repositories.StaffFilter{OrganizationID: opts.OrganizationID}
	if opts.ManageableOnly {
		filter.Roles = s.evaluator.GetManageableRoles(actor.Role)
		if len(filter.Roles) == 0 {
			return []*models.StaffMember{}, nil
		}
	}

	members, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, WrapRepositoryError("staff member", err)
	}
	return members, nil
}

// Create adds a staff member with input.Role
func (s *StaffService) Create(ctx context.Context, actor *models.StaffMember, input CreateStaffInput) (*models.StaffMember, error) {
	if !input.Role.Valid() {
		return nil, NewDomainError(ErrorTypeValidation, "invalid staff role", nil).WithDetail("role", string(input.Role))
	}
	if err := s.authorize(actor, permissions.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.requireManageable(actor, input.Role); err != nil {
		return nil, err
	}

	member := models.NewStaffMember(input.UserID, input.Role, input.OrganizationID)
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, WrapRepositoryError("staff member", err)
	}

	s.logger.Info("staff member created",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("user_id", member.UserID.String()),
		zap.String("role", string(member.Role)))

	if s.audit != nil {
		s.auditFailed(s.audit.LogStaffCreated(ctx, actor, member))
	}
	return member, nil
}

// UpdateRole changes the role of staff member id. The actor must manage both
// the current and the new role.
func (s *StaffService) UpdateRole(ctx context.Context, actor *models.StaffMember, id uuid.UUID, role permissions.StaffRole) (*models.StaffMember, error) {
	if !role.Valid() {
		return nil, NewDomainError(ErrorTypeValidation, "invalid staff role", nil).WithDetail("role", string(role))
	}
	if err := s.authorize(actor, permissions.ActionUpdate); err != nil {
		return nil, err
	}

	target, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, WrapRepositoryError("staff member", err)
	}
	if err := s.requireManageable(actor, target.Role); err != nil {
		return nil, err
	}
	if err := s.requireManageable(actor, role); err != nil {
		return nil, err
	}

	if err := s.staff.UpdateRole(ctx, id, role); err != nil {
		return nil, WrapRepositoryError("staff member", err)
	}

	s.logger.Info("staff role updated",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("staff_id", id.String()),
		zap.String("from", string(target.Role)),
		zap.String("to", string(role)))

	from := target.Role
	target.Role = role
	if s.audit != nil {
		s.auditFailed(s.audit.LogStaffRoleUpdated(ctx, actor, target, from))
	}
	return target, nil
}

// Delete removes staff member id
func (s *StaffService) Delete(ctx context.Context, actor *models.StaffMember, id uuid.UUID) error {
	if err := s.authorize(actor, permissions.ActionDelete); err != nil {
		return err
	}

	target, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return WrapRepositoryError("staff member", err)
	}
	if err := s.requireManageable(actor, target.Role); err != nil {
		return err
	}

	if err := s.staff.Delete(ctx, id); err != nil {
		return WrapRepositoryError("staff member", err)
	}

	s.logger.Info("staff member deleted",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("staff_id", id.String()),
		zap.String("role", string(target.Role)))

	if s.audit != nil {
		s.auditFailed(s.audit.LogStaffDeleted(ctx, actor, target))
	}
	return nil
}

// auditFailed logs a lost audit entry. The change itself already succeeded.
func (s *StaffService) auditFailed(err error) {
	if err != nil {
		s.logger.Warn("staff change not audited", zap.Error(err))
	}
}

func (s *StaffService) authorize(actor *models.StaffMember, action permissions.Action) error {
	if actor == nil {
		return NewDomainError(ErrorTypeForbidden, "staff role required", nil)
	}
	if !s.evaluator.HasResourcePermission(actor.Role, permissions.ResourceStaff, action) {
		return NewDomainError(ErrorTypeForbidden, "insufficient permissions", nil).
			WithDetail("resource", permissions.ResourceStaff).
			WithDetail("action", string(action))
	}
	return nil
}

func (s *StaffService) requireManageable(actor *models.StaffMember, role permissions.StaffRole) error {
	if !s.evaluator.CanManageRole(actor.Role, role) {
		return NewDomainError(ErrorTypeForbidden, "role cannot be managed by caller", nil).
			WithDetail("role", string(role))
	}
	return nil
}
