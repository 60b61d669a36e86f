package permissions

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned when a string does not name a known role
var ErrUnknownRole = errors.New("unknown role")

// StaffRole represents a platform-level staff role
type StaffRole string

const (
	RoleOwner                 StaffRole = "owner"
	RolePlatformAdmin         StaffRole = "platform_admin"
	RoleCustomerService       StaffRole = "customer_service"
	RoleTournamentDirector    StaffRole = "tournament_director"
	RoleTournamentCoordinator StaffRole = "tournament_coordinator"
	RoleLeagueDirector        StaffRole = "league_director"
	RoleLeagueCoordinator     StaffRole = "league_coordinator"
)

// OrgRole represents a role scoped to a single esports organization
type OrgRole string

const (
	OrgRoleOwner   OrgRole = "org_owner"
	OrgRoleManager OrgRole = "org_manager"
	OrgRoleStaff   OrgRole = "org_staff"
)

// StaffRoles returns every staff role in declaration order
func StaffRoles() []StaffRole {
	return []StaffRole{
		RoleOwner,
		RolePlatformAdmin,
		RoleCustomerService,
		RoleTournamentDirector,
		RoleTournamentCoordinator,
		RoleLeagueDirector,
		RoleLeagueCoordinator,
	}
}

// OrgRoles returns every organization role in declaration order
func OrgRoles() []OrgRole {
	return []OrgRole{OrgRoleOwner, OrgRoleManager, OrgRoleStaff}
}

// Valid reports whether r is one of the known staff roles
func (r StaffRole) Valid() bool {
	for _, known := range StaffRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// Valid reports whether r is one of the known organization roles
func (r OrgRole) Valid() bool {
	for _, known := range OrgRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// ParseStaffRole converts s to a StaffRole
func ParseStaffRole(s string) (StaffRole, error) {
	role := StaffRole(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// ParseOrgRole converts s to an OrgRole
func ParseOrgRole(s string) (OrgRole, error) {
	role := OrgRole(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}
