package permissions

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicHierarchy is returned by Validate when a role can reach itself
	ErrCyclicHierarchy = errors.New("role hierarchy contains a cycle")

	// ErrIncompleteTable is returned by Validate when a staff role has no permission set
	ErrIncompleteTable = errors.New("permission table is incomplete")
)

// Table is the immutable permission table and role hierarchy.
// All accessors return copies.
type Table struct {
	staff     map[StaffRole]PermissionSet
	org       map[OrgRole]PermissionSet
	hierarchy map[StaffRole][]StaffRole
}

// NewTable builds a Table from the given maps, copying every entry
func NewTable(staff map[StaffRole]PermissionSet, org map[OrgRole]PermissionSet, hierarchy map[StaffRole][]StaffRole) *Table {
	t := &Table{
		staff:     make(map[StaffRole]PermissionSet, len(staff)),
		org:       make(map[OrgRole]PermissionSet, len(org)),
		hierarchy: make(map[StaffRole][]StaffRole, len(hierarchy)),
	}
	for role, set := range staff {
		t.staff[role] = set.Clone()
	}
	for role, set := range org {
		t.org[role] = set.Clone()
	}
	for role, inherited := range hierarchy {
		t.hierarchy[role] = append([]StaffRole{}, inherited...)
	}
	return t
}

// DefaultTable returns the platform's permission table
func DefaultTable() *Table {
	return NewTable(defaultStaffPermissions(), defaultOrgPermissions(), defaultHierarchy())
}

// StaffPermissions returns a copy of the role's own permission set
func (t *Table) StaffPermissions(role StaffRole) (PermissionSet, bool) {
	set, ok := t.staff[role]
	if !ok {
		return PermissionSet{}, false
	}
	return set.Clone(), true
}

// OrgPermissions returns a copy of the organization role's permission set
func (t *Table) OrgPermissions(role OrgRole) (PermissionSet, bool) {
	set, ok := t.org[role]
	if !ok {
		return PermissionSet{}, false
	}
	return set.Clone(), true
}

// Inherited returns a copy of the roles directly inherited by role
func (t *Table) Inherited(role StaffRole) []StaffRole {
	return append([]StaffRole{}, t.hierarchy[role]...)
}

// Validate checks that every staff role has a permission set, that the
// hierarchy only names roles with permission sets and that it is acyclic.
func (t *Table) Validate() error {
	for _, role := range StaffRoles() {
		if _, ok := t.staff[role]; !ok {
			return fmt.Errorf("%w: no permissions for %s", ErrIncompleteTable, role)
		}
	}
	for role, inherited := range t.hierarchy {
		for _, r := range inherited {
			if _, ok := t.staff[r]; !ok {
				return fmt.Errorf("%w: %s inherits unknown role %s", ErrIncompleteTable, role, r)
			}
		}
	}
	for role := range t.hierarchy {
		for _, r := range t.hierarchy[role] {
			if walkHierarchy(t.hierarchy, r, func(reached StaffRole) bool { return reached == role }) {
				return fmt.Errorf("%w: %s reaches itself", ErrCyclicHierarchy, role)
			}
		}
	}
	return nil
}

// basePermissions is the shared starting point for every role's set
func basePermissions() PermissionSet {
	return PermissionSet{
		Resources: map[string]ResourcePermission{
			ResourceStaff: {
				Name:        "ROL Staff Management",
				Description: "Manage ROL platform staff members",
				Resource:    ResourceStaff,
				Actions:     []Action{ActionRead},
			},
			ResourceTournaments: {
				Name:        "Tournament Management",
				Description: "Manage tournaments and their settings",
				Resource:    ResourceTournaments,
				Actions:     []Action{ActionRead},
			},
			ResourceLeagues: {
				Name:        "League Management",
				Description: "Manage leagues and their settings",
				Resource:    ResourceLeagues,
				Actions:     []Action{ActionRead},
			},
			ResourceTeams: {
				Name:        "Team Management",
				Description: "View teams and their rosters",
				Resource:    ResourceTeams,
				Actions:     []Action{ActionRead},
			},
			ResourceOrganizations: {
				Name:        "Esports Organizations",
				Description: "View esports organizations",
				Resource:    ResourceOrganizations,
				Actions:     []Action{ActionRead},
			},
		},
		Features: map[string]FeaturePermission{
			FeatureViewAnalytics: {
				Name:        "View Analytics",
				Description: "Access to ROL platform analytics",
				Feature:     "analytics",
				Allowed:     false,
			},
			FeatureManageSettings: {
				Name:        "Manage Settings",
				Description: "Access to ROL platform settings",
				Feature:     "settings",
				Allowed:     false,
			},
		},
	}
}

// derive copies base and replaces the actions of the given resources and the
// allowed flag of the given features. Keys absent from base are ignored.
func derive(base PermissionSet, actions map[string][]Action, allowed map[string]bool) PermissionSet {
	set := base.Clone()
	for key, acts := range actions {
		res, ok := set.Resources[key]
		if !ok {
			continue
		}
		res.Actions = append([]Action{}, acts...)
		set.Resources[key] = res
	}
	for key, allow := range allowed {
		feat, ok := set.Features[key]
		if !ok {
			continue
		}
		feat.Allowed = allow
		set.Features[key] = feat
	}
	return set
}

var (
	actionsCRUD = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	actionsCRU  = []Action{ActionCreate, ActionRead, ActionUpdate}
	actionsRU   = []Action{ActionRead, ActionUpdate}
	actionsRUD  = []Action{ActionRead, ActionUpdate, ActionDelete}
	actionsR    = []Action{ActionRead}
)

func defaultStaffPermissions() map[StaffRole]PermissionSet {
	base := basePermissions()
	return map[StaffRole]PermissionSet{
		RoleOwner: derive(base,
			map[string][]Action{
				ResourceStaff:         actionsCRUD,
				ResourceTournaments:   actionsCRUD,
				ResourceLeagues:       actionsCRUD,
				ResourceTeams:         actionsRUD,
				ResourceOrganizations: actionsRUD,
			},
			map[string]bool{FeatureViewAnalytics: true, FeatureManageSettings: true},
		),
		RolePlatformAdmin: derive(base,
			map[string][]Action{
				ResourceStaff:         actionsCRU,
				ResourceTournaments:   actionsCRUD,
				ResourceLeagues:       actionsCRUD,
				ResourceTeams:         actionsRU,
				ResourceOrganizations: actionsR,
			},
			map[string]bool{FeatureViewAnalytics: true, FeatureManageSettings: true},
		),
		RoleTournamentDirector: derive(base,
			map[string][]Action{ResourceTournaments: actionsCRU},
			map[string]bool{FeatureViewAnalytics: true},
		),
		RoleLeagueDirector: derive(base,
			map[string][]Action{ResourceLeagues: actionsCRU},
			map[string]bool{FeatureViewAnalytics: true},
		),
		RoleCustomerService: derive(base,
			map[string][]Action{
				ResourceTeams:         actionsR,
				ResourceTournaments:   actionsR,
				ResourceLeagues:       actionsR,
				ResourceOrganizations: actionsR,
			},
			nil,
		),
		RoleTournamentCoordinator: derive(base, map[string][]Action{ResourceTournaments: actionsRU}, nil),
		RoleLeagueCoordinator:     derive(base, map[string][]Action{ResourceLeagues: actionsRU}, nil),
	}
}

func defaultOrgPermissions() map[OrgRole]PermissionSet {
	base := basePermissions()
	return map[OrgRole]PermissionSet{
		OrgRoleOwner: derive(base,
			map[string][]Action{ResourceTeams: actionsCRUD},
			map[string]bool{FeatureViewAnalytics: true},
		),
		OrgRoleManager: derive(base,
			map[string][]Action{ResourceTeams: actionsCRU},
			map[string]bool{FeatureViewAnalytics: true},
		),
		OrgRoleStaff: derive(base, map[string][]Action{ResourceTeams: actionsR}, nil),
	}
}
