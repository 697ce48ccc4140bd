// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/platform/ctxutil"
	"github.com/kietvo/scolara/internal/platform/sec"
)

/*
TestContext_RequestID verifies the correlation ID round trip and the empty
default.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-0199")
	assert.Equal(t, "req-0199", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies an attached logger is returned and that a bare
context falls back to the default logger instead of nil.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, ctxutil.GetLogger(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies claims injection and the nil-for-anonymous
contract.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	claims := &sec.AuthClaims{
		UserID:   "user-123",
		Role:     string(sec.RoleSchoolAdmin),
		SchoolID: "school-7",
	}
	ctx = ctxutil.WithAuthUser(ctx, claims)

	retrieved := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.Equal(t, string(sec.RoleSchoolAdmin), retrieved.Role)
	assert.Equal(t, "school-7", retrieved.SchoolID)
}
