package permissions

import "sort"

// Evaluator answers authorization questions against an immutable Table.
// It holds no other state and is safe for concurrent use.
type Evaluator struct {
	table *Table
}

// NewEvaluator creates an Evaluator over table
func NewEvaluator(table *Table) *Evaluator {
	return &Evaluator{table: table}
}

// Table returns the table backing the evaluator
func (e *Evaluator) Table() *Table {
	return e.table
}

// HasResourcePermission reports whether the role's own permission set grants
// action on resource. Inherited roles are not consulted.
func (e *Evaluator) HasResourcePermission(role StaffRole, resource string, action Action) bool {
	set, ok := e.table.staff[role]
	if !ok {
		return false
	}
	res, ok := set.Resources[resource]
	if !ok {
		return false
	}
	return res.Allows(action)
}

// HasFeaturePermission reports whether the role's own permission set allows feature
func (e *Evaluator) HasFeaturePermission(role StaffRole, feature string) bool {
	set, ok := e.table.staff[role]
	if !ok {
		return false
	}
	return set.Features[feature].Allowed
}

// HasOrgResourcePermission is HasResourcePermission for organization roles
func (e *Evaluator) HasOrgResourcePermission(role OrgRole, resource string, action Action) bool {
	set, ok := e.table.org[role]
	if !ok {
		return false
	}
	res, ok := set.Resources[resource]
	if !ok {
		return false
	}
	return res.Allows(action)
}

// HasOrgFeaturePermission is HasFeaturePermission for organization roles
func (e *Evaluator) HasOrgFeaturePermission(role OrgRole, feature string) bool {
	set, ok := e.table.org[role]
	if !ok {
		return false
	}
	return set.Features[feature].Allowed
}

// InheritsRole reports whether role is target or can reach target by
// following inherited-role edges any number of times.
func (e *Evaluator) InheritsRole(role, target StaffRole) bool {
	return walkHierarchy(e.table.hierarchy, role, func(reached StaffRole) bool {
		return reached == target
	})
}

// CanManageRole reports whether target is directly listed under user in the
// hierarchy. Unlike InheritsRole this is neither reflexive nor transitive.
func (e *Evaluator) CanManageRole(user, target StaffRole) bool {
	for _, r := range e.table.hierarchy[user] {
		if r == target {
			return true
		}
	}
	return false
}

// GetManageableRoles returns the roles directly listed under role
func (e *Evaluator) GetManageableRoles(role StaffRole) []StaffRole {
	return e.table.Inherited(role)
}

// GetRolePermissions returns a copy of the role's own permission set
func (e *Evaluator) GetRolePermissions(role StaffRole) (PermissionSet, bool) {
	return e.table.StaffPermissions(role)
}

// GetAllPermissions merges the role's own set with the sets of the roles it
// directly inherits. Actions are unioned per resource. A feature is taken from
// an inherited set when it is missing so far or when the inherited entry is allowed.
func (e *Evaluator) GetAllPermissions(role StaffRole) PermissionSet {
	merged := PermissionSet{
		Resources: map[string]ResourcePermission{},
		Features:  map[string]FeaturePermission{},
	}
	if own, ok := e.table.staff[role]; ok {
		merged = own.Clone()
	}

	for _, inheritedRole := range e.table.hierarchy[role] {
		inherited, ok := e.table.staff[inheritedRole]
		if !ok {
			continue
		}

		for key, res := range inherited.Resources {
			current, exists := merged.Resources[key]
			if !exists {
				merged.Resources[key] = res.clone()
				continue
			}
			combined := res.clone()
			combined.Actions = unionActions(current.Actions, res.Actions)
			merged.Resources[key] = combined
		}

		for key, feat := range inherited.Features {
			if _, exists := merged.Features[key]; !exists || feat.Allowed {
				merged.Features[key] = feat
			}
		}
	}

	return merged
}

// HasAnyResourcePermission reports whether the role holds at least one of actions on resource
func (e *Evaluator) HasAnyResourcePermission(role StaffRole, resource string, actions []Action) bool {
	for _, action := range actions {
		if e.HasResourcePermission(role, resource, action) {
			return true
		}
	}
	return false
}

// HasAllResourcePermissions reports whether the role holds every one of actions on resource.
// An empty list is satisfied trivially.
func (e *Evaluator) HasAllResourcePermissions(role StaffRole, resource string, actions []Action) bool {
	for _, action := range actions {
		if !e.HasResourcePermission(role, resource, action) {
			return false
		}
	}
	return true
}

// GetAccessibleResources returns, sorted, the resources on which the role's
// own set grants at least one action
func (e *Evaluator) GetAccessibleResources(role StaffRole) []string {
	set, ok := e.table.staff[role]
	if !ok {
		return []string{}
	}
	resources := make([]string, 0, len(set.Resources))
	for key, res := range set.Resources {
		if len(res.Actions) > 0 {
			resources = append(resources, key)
		}
	}
	sort.Strings(resources)
	return resources
}

func unionActions(a, b []Action) []Action {
	seen := make(map[Action]bool, len(a)+len(b))
	out := make([]Action, 0, len(a)+len(b))
	for _, list := range [][]Action{a, b} {
		for _, action := range list {
			if seen[action] {
				continue
			}
			seen[action] = true
			out = append(out, action)
		}
	}
	return out
}
