// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package guard

import "github.com/kietvo/scolara/internal/platform/sec"

// LoginRoute is where unauthenticated visitors are sent.
const LoginRoute = "/login"

// Dashboard home routes, one per role.
const (
	SuperAdminDashboard  = "/super-admin/dashboard"
	SchoolAdminDashboard = "/school-admin/dashboard"
	TeacherDashboard     = "/teacher/dashboard"
	StudentDashboard     = "/student/dashboard"
)

/*
DashboardPath maps a role to its dashboard home route.

An unrecognized or empty role maps to [LoginRoute]; a user whose role the
client does not understand has no home to land on.
*/
func DashboardPath(role sec.Role) string {
	switch role {
	case sec.RoleSuperAdmin:
		return SuperAdminDashboard
	case sec.RoleSchoolAdmin:
		return SchoolAdminDashboard
	case sec.RoleTeacher:
		return TeacherDashboard
	case sec.RoleStudent:
		return StudentDashboard
	default:
		return LoginRoute
	}
}
