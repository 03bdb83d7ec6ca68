package auth

// Role represents a user role.
type Role string

const (
	// RoleViewer can read rooms, readings and invoices.
	RoleViewer Role = "viewer"
	// RoleManager runs day-to-day collection: readings, mark-paid, reminders.
	RoleManager Role = "manager"
	// RoleLandlord owns pricing and month generation.
	RoleLandlord Role = "landlord"
)

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleViewer, RoleManager, RoleLandlord:
		return Role(value), true
	default:
		return "", false
	}
}

// RoleAtLeast returns true when role satisfies required role.
func RoleAtLeast(role Role, required Role) bool {
	return roleRank(role) >= roleRank(required)
}

func roleRank(role Role) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleManager:
		return 2
	case RoleLandlord:
		return 3
	default:
		return 0
	}
}
