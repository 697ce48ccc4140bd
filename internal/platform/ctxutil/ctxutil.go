// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

// Package ctxutil carries request-scoped values through [context.Context]:
// the correlation ID, the per-request logger, and the authenticated claims.
//
// Keys are an unexported type, so values set here cannot collide with context
// values set by third-party packages.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/kietvo/scolara/internal/platform/sec"
)

type contextKey int

const (
	keyRequestID contextKey = iota
	keyLogger
	keyAuthUser
)

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID returns the correlation ID, or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// WithLogger attaches the per-request structured logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default] so
// callers can log unconditionally.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithAuthUser attaches the verified authentication claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, keyAuthUser, user)
}

// GetAuthUser returns the verified claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(keyAuthUser).(*sec.AuthClaims)
	return claims
}
