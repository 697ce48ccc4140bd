// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/kietvo/scolara/internal/platform/apperr"
	"github.com/kietvo/scolara/internal/platform/constants"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for generating and inspecting access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID string, role sec.Role, schoolID string, timeToLive time.Duration) (string, error)
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Service implements the authentication use cases.
type Service struct {
	userRepository UserRepository
	revokedTokens  RevokedTokenRepository
	tokenIssuer    TokenIssuer
	accessTokenTTL time.Duration
}

// NewService constructs a new identity [Service] with its dependencies.
func NewService(userRepo UserRepository, revokedRepo RevokedTokenRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		revokedTokens:  revokedRepo,
		tokenIssuer:    issuer,
		accessTokenTTL: constants.AccessTokenTTL,
	}
}

// # Registration Flow

// SignupInput holds the data required to create a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     sec.Role
	SchoolID string
}

// Signup validates, hashes, and persists a new user account.
// Returns a client-safe Conflict error if the email is already registered.
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	// Verify email uniqueness before hashing; hashing is the expensive step.
	_, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
		SchoolID:     input.SchoolID,
		IsActive:     true,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("identity_service_signup_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession is the result of a successful authentication.
type LoginSession struct {
	AccessToken string
	TokenType   string
	User        *User
}

// Login verifies credentials and issues a signed access token.
//
// Failures are reported with a single generic Unauthorized message to
// prevent account enumeration.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("Account is inactive")
	}

	accessToken, err := service.tokenIssuer.GenerateAccessToken(user.ID, user.Role, user.SchoolID, service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Profile resolves the authenticated user's server-verified profile.
//
// This is the authoritative source for the dashboard's role decisions: the
// session core never trusts a locally decoded credential for access control.
func (service *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Could not validate credentials")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is inactive")
	}

	return NewProfile(user), nil
}

// # Session Management

// Logout revokes the presented access token on the server side.
//
// The revocation entry lives only as long as the token itself would have;
// an already-expired or unparseable token makes logout a no-op (idempotent).
func (service *Service) Logout(ctx context.Context, token string) error {
	claims, err := service.tokenIssuer.VerifyToken(token)
	if err != nil {
		return nil
	}

	ttl := timeUntilExpiry(claims)
	if ttl <= 0 {
		return nil
	}

	if err := service.revokedTokens.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("identity_service_logout_failed: %w", err)
	}

	return nil
}

// ChangePassword lets an authenticated user rotate their own credentials
// after verifying the current password.
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("identity_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("identity_service_change_password_update_failed: %w", err)
	}

	return nil
}

// timeUntilExpiry returns the remaining lifetime of the token's claims.
func timeUntilExpiry(claims *sec.AuthClaims) time.Duration {
	expiry := claims.ExpiresAt
	if expiry == nil {
		return 0
	}
	return time.Until(expiry.Time)
}
