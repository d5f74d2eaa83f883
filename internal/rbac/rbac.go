package rbac

// Role constants, mirrored from models so middleware can gate without importing them.
const (
	RoleDataOwner       = "data_owner"
	RoleMediaBuyer      = "media_buyer"
	RoleSolutionCreator = "solution_creator"
)

// Permission constants
const (
	PermManageCampaigns = "manage_campaigns"
	PermViewInsights    = "view_insights"
	PermCreateListing   = "create_listing"
	PermViewEarnings    = "view_earnings"
	PermPublishSolution = "publish_solution"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleMediaBuyer: {
		PermManageCampaigns, PermViewInsights,
	},
	RoleDataOwner: {
		PermCreateListing, PermViewEarnings,
	},
	RoleSolutionCreator: {
		PermPublishSolution, PermViewEarnings,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
