// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package identity implements user authentication for the Scolara platform.

It owns the User entity, credential verification, access-token issuance, and
the server side of logout (token revocation). The dashboard's session core
consumes this package exclusively over HTTP: POST /api/auth/login yields the
bearer credential, GET /api/auth/me resolves it back into a verified profile.

# Architecture

  - Service: orchestrates signup, login, profile resolution, password change.
  - UserRepository: Postgres-backed account storage.
  - RevokedTokenRepository: Redis-backed revocation list with natural expiry.
  - TokenIssuer: HS256 access tokens via the platform sec package.
*/
package identity

import (
	"time"

	"github.com/kietvo/scolara/internal/platform/sec"
)

// # Domain Entities

// User represents an account on the Scolara platform.
//
// SchoolID is empty for super admins, who operate across schools; every other
// role is scoped to exactly one school.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.Role  `json:"role"`
	SchoolID     string    `json:"school_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public identity record returned by GET /api/auth/me.
// It is exactly the shape the dashboard session store persists as `user`.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     sec.Role `json:"role"`
	SchoolID string   `json:"school_id,omitempty"`
}

// NewProfile projects a User onto its public profile.
func NewProfile(user *User) *Profile {
	return &Profile{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		SchoolID: user.SchoolID,
	}
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldRole            = "role"
	FieldSchoolID        = "school_id"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)
