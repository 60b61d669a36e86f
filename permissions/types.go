package permissions

// Action is an operation that can be granted on a resource
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource identifiers present in the base permission set
const (
	ResourceStaff         = "rol_staff"
	ResourceTournaments   = "tournaments"
	ResourceLeagues       = "leagues"
	ResourceTeams         = "teams"
	ResourceOrganizations = "esports_orgs"
)

// Feature keys present in the base permission set
const (
	FeatureViewAnalytics  = "viewAnalytics"
	FeatureManageSettings = "manageSettings"
)

// ResourcePermission grants a set of actions on one resource
type ResourcePermission struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Resource    string   `json:"resource"`
	Actions     []Action `json:"actions"`
}

// Allows reports whether action is among the granted actions
func (p ResourcePermission) Allows(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (p ResourcePermission) clone() ResourcePermission {
	out := p
	out.Actions = append([]Action{}, p.Actions...)
	return out
}

// FeaturePermission toggles access to a platform feature
type FeaturePermission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Feature     string `json:"feature"`
	Allowed     bool   `json:"allowed"`
}

// PermissionSet is the full grant attached to one role
type PermissionSet struct {
	Resources map[string]ResourcePermission `json:"resources"`
	Features  map[string]FeaturePermission  `json:"features"`
}

// Clone returns a deep copy of the set
func (s PermissionSet) Clone() PermissionSet {
	out := PermissionSet{
		Resources: make(map[string]ResourcePermission, len(s.Resources)),
		Features:  make(map[string]FeaturePermission, len(s.Features)),
	}
	for key, res := range s.Resources {
		out.Resources[key] = res.clone()
	}
	for key, feat := range s.Features {
		out.Features[key] = feat
	}
	return out
}
