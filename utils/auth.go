package utils

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	GuestPermission     = "guest"
)

func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member
// given their role ids and the configured admin roles and developer
// users.
func CheckPermission(memberRoleIDs []string, userID string, adminRoleIDs, developerUserIDs []string) string {
	if contains(developerUserIDs, userID) {
		return DeveloperPermission
	}
	for _, roleID := range memberRoleIDs {
		if contains(adminRoleIDs, roleID) {
			return AdminPermission
		}
	}
	return GuestPermission
}

// IsAdmin reports whether the member may use admin commands.
func IsAdmin(memberRoleIDs []string, userID string, adminRoleIDs, developerUserIDs []string) bool {
	level := CheckPermission(memberRoleIDs, userID, adminRoleIDs, developerUserIDs)
	return level == AdminPermission || level == DeveloperPermission
}
