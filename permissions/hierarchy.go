package permissions

func defaultHierarchy() map[StaffRole][]StaffRole {
	return map[StaffRole][]StaffRole{
		RoleOwner: {
			RolePlatformAdmin,
			RoleCustomerService,
			RoleTournamentDirector,
			RoleTournamentCoordinator,
			RoleLeagueDirector,
			RoleLeagueCoordinator,
		},
		RolePlatformAdmin: {
			RoleCustomerService,
			RoleTournamentDirector,
			RoleTournamentCoordinator,
			RoleLeagueDirector,
			RoleLeagueCoordinator,
		},
		RoleTournamentDirector:    {RoleTournamentCoordinator},
		RoleLeagueDirector:        {RoleLeagueCoordinator},
		RoleCustomerService:       {},
		RoleTournamentCoordinator: {},
		RoleLeagueCoordinator:     {},
	}
}

// walkHierarchy visits start and every role reachable from it, each at most
// once, and reports whether visit returned true for any of them.
func walkHierarchy(hierarchy map[StaffRole][]StaffRole, start StaffRole, visit func(StaffRole) bool) bool {
	visited := map[StaffRole]bool{}
	stack := []StaffRole{start}
	for len(stack) > 0 {
		role := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[role] {
			continue
		}
		visited[role] = true
		if visit(role) {
			return true
		}
		stack = append(stack, hierarchy[role]...)
	}
	return false
}
