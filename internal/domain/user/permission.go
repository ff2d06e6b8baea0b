package user

import "slices"

type Permission string

const (
	// Attendance
	PermissionAttendanceView Permission = "attendance.view"
	PermissionAttendanceEdit Permission = "attendance.edit"
	PermissionAuditView      Permission = "attendance.audit"

	// Employees
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Rule sets
	PermissionSettingsManage Permission = "settings.manage"
	PermissionTemplateManage Permission = "template.manage"

	// Settlement
	PermissionSettlementView   Permission = "settlement.view"
	PermissionSettlementManage Permission = "settlement.manage"

	// Reports
	PermissionReportsView       Permission = "reports.view"
	PermissionReportsViewProfit Permission = "reports.view_profit"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionAuditView,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionSettingsManage,
		PermissionTemplateManage,
		PermissionSettlementView,
		PermissionSettlementManage,
		PermissionReportsView,
		PermissionReportsViewProfit,
		PermissionUserManage,
	},
	RoleUser: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionSettingsManage,
		PermissionTemplateManage,
		PermissionSettlementView,
		PermissionSettlementManage,
		PermissionReportsView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
