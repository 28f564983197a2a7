package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can review and correct attendance
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// CanViewAllAttendance reports whether the role may read other employees' records.
func (r Role) CanViewAllAttendance() bool {
	return HasPermission(r, PermissionAttendanceViewAll)
}
