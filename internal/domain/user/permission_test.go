package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionAttendanceDelete))
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceCorrect))
	assert.False(t, HasPermission(RoleManager, PermissionAttendanceDelete))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceViewAll))
	assert.False(t, HasPermission(RolePending, PermissionAttendanceViewOwn))
	assert.False(t, HasPermission(Role("intern"), PermissionAttendanceViewOwn))
}

func TestRole_CanViewAllAttendance(t *testing.T) {
	assert.True(t, RoleOwner.CanViewAllAttendance())
	assert.True(t, RoleManager.CanViewAllAttendance())
	assert.False(t, RoleEmployee.CanViewAllAttendance())
}
