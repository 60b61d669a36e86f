package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"github.com/upb/rol-control-plane/supabase"
	"go.uber.org/zap"
)

// Identity is everything the front end needs about the signed-in user
type Identity struct {
	User                *supabase.User            `json:"user"`
	DisplayName         string                    `json:"display_name"`
	Profile             *models.Profile           `json:"profile,omitempty"`
	StaffMember         *models.StaffMember       `json:"staff_member,omitempty"`
	Flags               permissions.RoleFlags     `json:"flags"`
	Capabilities        permissions.Capabilities  `json:"capabilities"`
	Permissions         permissions.PermissionSet `json:"permissions"`
	ManageableRoles     []permissions.StaffRole   `json:"manageable_roles"`
	AccessibleResources []string                  `json:"accessible_resources"`
}

// PermissionMatrix is the whole permission table in serializable form
type PermissionMatrix struct {
	StaffRoles map[permissions.StaffRole]permissions.PermissionSet `json:"staff_roles"`
	OrgRoles   map[permissions.OrgRole]permissions.PermissionSet   `json:"org_roles"`
	Hierarchy  map[permissions.StaffRole][]permissions.StaffRole   `json:"hierarchy"`
}

// AccessReport puts the database access functions next to the evaluator's
// answer for the same user
type AccessReport struct {
	UserID          uuid.UUID                `json:"user_id"`
	StaffMember     *models.StaffMember      `json:"staff_member,omitempty"`
	IsOwner         bool                     `json:"is_owner"`
	IsPlatformAdmin bool                     `json:"is_platform_admin"`
	IsSuperAdmin    bool                     `json:"is_super_admin"`
	Flags           permissions.RoleFlags    `json:"flags"`
	Capabilities    permissions.Capabilities `json:"capabilities"`
}

// IdentityService answers who the caller is and what the permission table grants
type IdentityService struct {
	profiles  repositories.ProfileRepository
	staff     repositories.StaffMemberRepository
	access    repositories.AccessRepository
	evaluator *permissions.Evaluator
	logger    *zap.Logger
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(
	profiles repositories.ProfileRepository,
	staff repositories.StaffMemberRepository,
	access repositories.AccessRepository,
	evaluator *permissions.Evaluator,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		profiles:  profiles,
		staff:     staff,
		access:    access,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Identity builds the identity of user. member is nil for users without a staff row,
// in which case every flag is false and the permission set is empty.
func (s *IdentityService) Identity(ctx context.Context, user *supabase.User, member *models.StaffMember) (*Identity, error) {
	if user == nil {
		return nil, NewDomainError(ErrorTypeUnauthorized, "authentication required", nil)
	}

	profile, err := s.profiles.GetByID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, WrapRepositoryError("profile", err)
		}
		profile = nil
	}

	identity := &Identity{
		User:                user,
		Profile:             profile,
		StaffMember:         member,
		Permissions:         permissions.PermissionSet{Resources: map[string]permissions.ResourcePermission{}, Features: map[string]permissions.FeaturePermission{}},
		ManageableRoles:     []permissions.StaffRole{},
		AccessibleResources: []string{},
	}
	identity.DisplayName = user.Email
	if profile != nil {
		identity.DisplayName = profile.DisplayName()
	}
	if member == nil {
		return identity, nil
	}

	identity.Flags = s.evaluator.RoleFlags(member.Role)
	identity.Capabilities = s.evaluator.Capabilities(member.Role)
	identity.Permissions = s.evaluator.GetAllPermissions(member.Role)
	identity.ManageableRoles = s.evaluator.GetManageableRoles(member.Role)
	identity.AccessibleResources = s.evaluator.GetAccessibleResources(member.Role)
	return identity, nil
}

// PermissionMatrix returns every role's own permission set and the hierarchy
func (s *IdentityService) PermissionMatrix() *PermissionMatrix {
	table := s.evaluator.Table()
	matrix := &PermissionMatrix{
		StaffRoles: map[permissions.StaffRole]permissions.PermissionSet{},
		OrgRoles:   map[permissions.OrgRole]permissions.PermissionSet{},
		Hierarchy:  map[permissions.StaffRole][]permissions.StaffRole{},
	}
	for _, role := range permissions.StaffRoles() {
		if set, ok := table.StaffPermissions(role); ok {
			matrix.StaffRoles[role] = set
		}
		matrix.Hierarchy[role] = table.Inherited(role)
	}
	for _, role := range permissions.OrgRoles() {
		if set, ok := table.OrgPermissions(role); ok {
			matrix.OrgRoles[role] = set
		}
	}
	return matrix
}

// AccessReport compares is_owner, is_platform_admin and is_super_admin with
// the flags derived from the user's staff row
func (s *IdentityService) AccessReport(ctx context.Context, userID uuid.UUID) (*AccessReport, error) {
	report := &AccessReport{UserID: userID}

	member, err := s.staff.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		report.StaffMember = member
		report.Flags = s.evaluator.RoleFlags(member.Role)
		report.Capabilities = s.evaluator.Capabilities(member.Role)
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, WrapRepositoryError("staff member", err)
	}

	if report.IsOwner, err = s.access.IsOwner(ctx, userID); err != nil {
		return nil, WrapInternal("failed to call is_owner", err)
	}
	if report.IsPlatformAdmin, err = s.access.IsPlatformAdmin(ctx, userID); err != nil {
		return nil, WrapInternal("failed to call is_platform_admin", err)
	}
	if report.IsSuperAdmin, err = s.access.IsSuperAdmin(ctx, userID); err != nil {
		return nil, WrapInternal("failed to call is_super_admin", err)
	}

	if report.StaffMember != nil && report.IsOwner != report.Flags.IsOwner {
		s.logger.Warn("is_owner disagrees with staff role",
			zap.String("user_id", userID.String()),
			zap.String("role", string(member.Role)),
			zap.Bool("is_owner", report.IsOwner))
	}
	return report, nil
}
