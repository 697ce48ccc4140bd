// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/platform/constants"
	"github.com/kietvo/scolara/internal/platform/ctxutil"
	"github.com/kietvo/scolara/internal/platform/middleware"
	"github.com/kietvo/scolara/internal/platform/sec"
)

const testSigningSecret = "test-secret-test-secret-test-secret!"

// okHandler marks the request as having passed the middleware under test.
func okHandler(passed *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*passed = true
		writer.WriteHeader(http.StatusOK)
	})
}

// staticRevocations returns a fixed answer for every token.
type staticRevocations struct {
	revoked bool
	err     error
}

func (store staticRevocations) IsRevoked(context.Context, string) (bool, error) {
	return store.revoked, store.err
}

func newVerifier(t *testing.T) *sec.TokenService {
	t.Helper()
	tokenService, err := sec.NewTokenService(testSigningSecret, constants.AuthIssuer)
	require.NoError(t, err)
	return tokenService
}

func issueToken(t *testing.T, verifier *sec.TokenService, role sec.Role) string {
	t.Helper()
	token, err := verifier.GenerateAccessToken("user-1", role, "school-1", time.Hour)
	require.NoError(t, err)
	return token
}

/*
TestAuthenticate drives the bearer-extraction flow: anonymous passthrough,
malformed headers, invalid tokens, revocation, and claim injection.
*/
func TestAuthenticate(t *testing.T) {
	verifier := newVerifier(t)
	validToken := issueToken(t, verifier, sec.RoleTeacher)

	tests := []struct {
		name        string
		header      string
		revocations middleware.TokenRevocations
		wantStatus  int
		wantPassed  bool
	}{
		{
			name:       "no_header_is_anonymous",
			header:     "",
			wantStatus: http.StatusOK,
			wantPassed: true,
		},
		{
			name:       "malformed_header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid_token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid_token",
			header:     "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantPassed: true,
		},
		{
			name:        "revoked_token",
			header:      "Bearer " + validToken,
			revocations: staticRevocations{revoked: true},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "revocation_store_error_fails_open",
			header:      "Bearer " + validToken,
			revocations: staticRevocations{err: errors.New("redis down")},
			wantStatus:  http.StatusOK,
			wantPassed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed := false
			handler := middleware.Authenticate(verifier, tt.revocations)(okHandler(&passed))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantPassed, passed)
		})
	}
}

/*
TestAuthenticate_LogsRevocationCheckFailure verifies that failing open on a
revocation-store error leaves a trace in the request log.
*/
func TestAuthenticate_LogsRevocationCheckFailure(t *testing.T) {
	verifier := newVerifier(t)
	token := issueToken(t, verifier, sec.RoleTeacher)

	var logOutput bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logOutput, nil))

	passed := false
	revocations := staticRevocations{err: errors.New("redis down")}
	handler := middleware.Authenticate(verifier, revocations)(okHandler(&passed))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithLogger(request.Context(), logger))
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, passed)
	assert.True(t, strings.Contains(logOutput.String(), "token_revocation_check_failed"))
	assert.True(t, strings.Contains(logOutput.String(), "redis down"))
}

/*
TestAuthenticate_InjectsClaims verifies downstream handlers see the verified
identity.
*/
func TestAuthenticate_InjectsClaims(t *testing.T) {
	verifier := newVerifier(t)
	token := issueToken(t, verifier, sec.RoleSchoolAdmin)

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier, nil)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, string(sec.RoleSchoolAdmin), seen.Role)
	assert.Equal(t, "school-1", seen.SchoolID)
}

/*
TestRequireAuth verifies the authenticated-only gate.
*/
func TestRequireAuth(t *testing.T) {
	passed := false
	handler := middleware.RequireAuth(okHandler(&passed))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, passed)

	claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleStudent)}
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, passed)
}

/*
TestRequireRoles verifies flat membership: no hierarchy, no implicit access
for privileged roles.
*/
func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       sec.Role
		allowed    []sec.Role
		wantStatus int
	}{
		{"allowed_single", sec.RoleTeacher, []sec.Role{sec.RoleTeacher}, http.StatusOK},
		{"allowed_in_set", sec.RoleSchoolAdmin, []sec.Role{sec.RoleSchoolAdmin, sec.RoleTeacher}, http.StatusOK},
		{"student_blocked_from_staff_route", sec.RoleStudent, []sec.Role{sec.RoleSchoolAdmin, sec.RoleTeacher}, http.StatusForbidden},
		{"super_admin_not_implicit", sec.RoleSuperAdmin, []sec.Role{sec.RoleTeacher}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed := false
			handler := middleware.RequireRoles(tt.allowed...)(okHandler(&passed))

			claims := &sec.AuthClaims{UserID: "user-1", Role: string(tt.role)}
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, passed)
		})
	}

	t.Run("anonymous_gets_401_not_403", func(t *testing.T) {
		passed := false
		handler := middleware.RequireRoles(sec.RoleTeacher)(okHandler(&passed))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, passed)
	})
}
