// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/platform/sec"
)

const testSigningSecret = "test-secret-test-secret-test-secret!"

/*
TestParseRole verifies the closed role enumeration.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"super_admin", true},
		{"school_admin", true},
		{"teacher", true},
		{"student", true},
		{"principal", false},
		{"SUPER_ADMIN", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			role, ok := sec.ParseRole(tt.value)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.valid, role.Valid())
		})
	}
}

/*
TestRole_In verifies flat set membership, including the empty-role case.
*/
func TestRole_In(t *testing.T) {
	assert.True(t, sec.RoleTeacher.In(sec.RoleSchoolAdmin, sec.RoleTeacher))
	assert.False(t, sec.RoleStudent.In(sec.RoleSchoolAdmin, sec.RoleTeacher))
	assert.False(t, sec.RoleSuperAdmin.In(sec.RoleTeacher))
	assert.False(t, sec.Role("").In(sec.RoleTeacher))
	assert.False(t, sec.RoleTeacher.In())
}

/*
TestPasswordHashing checks the bcrypt round trip and mismatch rejection.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestNewTokenService_RejectsShortSecret verifies the minimum key length.
*/
func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := sec.NewTokenService("too-short", "scolara.test")
	require.Error(t, err)

	_, err = sec.NewTokenService(testSigningSecret, "scolara.test")
	require.NoError(t, err)
}

/*
TestTokenService_RoundTrip verifies issued tokens carry the identity claims
back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSigningSecret, "scolara.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", sec.RoleSchoolAdmin, "school-7", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, string(sec.RoleSchoolAdmin), claims.Role)
	assert.Equal(t, "school-7", claims.SchoolID)
	assert.Equal(t, "scolara.test", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

/*
TestTokenService_RejectsBadTokens covers expiry, tampering, and foreign keys.
*/
func TestTokenService_RejectsBadTokens(t *testing.T) {
	service, err := sec.NewTokenService(testSigningSecret, "scolara.test")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("user-1", sec.RoleTeacher, "", -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("foreign_key", func(t *testing.T) {
		other, err := sec.NewTokenService("another-secret-another-secret-pad!!!", "scolara.test")
		require.NoError(t, err)

		token, err := other.GenerateAccessToken("user-1", sec.RoleTeacher, "", time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		require.Error(t, err)
	})
}
