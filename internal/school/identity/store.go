// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity

import (
	"context"
	"time"
)

// UserRepository abstracts persistent account storage.
//
// Implementations map storage errors (no rows, constraint violations) to
// apperr types so the service layer never sees driver-level errors.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// RevokedTokenRepository tracks access tokens invalidated by server-side
// logout. Entries expire together with the token itself, so the set stays
// bounded without a cleanup job.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
