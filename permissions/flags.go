package permissions

// RoleFlags are convenience booleans derived from a staff role
type RoleFlags struct {
	IsOwner           bool `json:"is_owner"`
	IsPlatformAdmin   bool `json:"is_platform_admin"`
	IsTournamentStaff bool `json:"is_tournament_staff"`
	IsLeagueStaff     bool `json:"is_league_staff"`
	IsCustomerService bool `json:"is_customer_service"`
}

// Capabilities summarise what the role's own permission set lets it do
type Capabilities struct {
	CanManageStaff       bool `json:"can_manage_staff"`
	CanManageTournaments bool `json:"can_manage_tournaments"`
	CanManageLeagues     bool `json:"can_manage_leagues"`
	CanViewAnalytics     bool `json:"can_view_analytics"`
	CanManageSettings    bool `json:"can_manage_settings"`
}

// RoleFlags computes the flags for role. Only IsOwner is an exact match; the
// others hold for any role that inherits the named role.
func (e *Evaluator) RoleFlags(role StaffRole) RoleFlags {
	return RoleFlags{
		IsOwner:         role == RoleOwner,
		IsPlatformAdmin: e.InheritsRole(role, RolePlatformAdmin),
		IsTournamentStaff: e.InheritsRole(role, RoleTournamentDirector) ||
			e.InheritsRole(role, RoleTournamentCoordinator),
		IsLeagueStaff: e.InheritsRole(role, RoleLeagueDirector) ||
			e.InheritsRole(role, RoleLeagueCoordinator),
		IsCustomerService: e.InheritsRole(role, RoleCustomerService),
	}
}

// Capabilities computes the capability summary for role
func (e *Evaluator) Capabilities(role StaffRole) Capabilities {
	return Capabilities{
		CanManageStaff:       e.HasResourcePermission(role, ResourceStaff, ActionCreate),
		CanManageTournaments: e.HasResourcePermission(role, ResourceTournaments, ActionCreate),
		CanManageLeagues:     e.HasResourcePermission(role, ResourceLeagues, ActionCreate),
		CanViewAnalytics:     e.HasFeaturePermission(role, FeatureViewAnalytics),
		CanManageSettings:    e.HasFeaturePermission(role, FeatureManageSettings),
	}
}
