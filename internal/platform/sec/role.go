// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package sec

// # User Roles

// Role represents the permission class assigned to an account.
//
// Scolara uses a flat, closed enumeration rather than a hierarchy: route and
// endpoint access is always expressed as an explicit allowed set, mirroring
// how the dashboard gates its views.
type Role string

const (
	// Platform operator: manages schools and school admins.
	RoleSuperAdmin Role = "super_admin"

	// Manages teachers and students within a single school.
	RoleSchoolAdmin Role = "school_admin"

	// Records marks and views their own students.
	RoleTeacher Role = "teacher"

	// Views their own marks and profile.
	RoleStudent Role = "student"
)

// AllRoles lists every recognized role, in privilege order for display only.
var AllRoles = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent}

// ParseRole converts a raw string into a [Role].
// The boolean result reports whether the value is a recognized role.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}

// Valid reports whether the role is part of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// In reports whether the role is a member of the allowed set.
//
// An unrecognized or empty role is never a member of any set, so callers can
// safely pass through values of unknown provenance.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
