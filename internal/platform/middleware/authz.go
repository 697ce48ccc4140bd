// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kietvo/scolara/internal/platform/apperr"
	"github.com/kietvo/scolara/internal/platform/ctxutil"
	"github.com/kietvo/scolara/internal/platform/respond"
	"github.com/kietvo/scolara/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining it here decouples the middleware from the identity service and
// lets unit tests inject fakes.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// TokenRevocations reports whether an access token has been revoked by a
// server-side logout. Implementations must be cheap; the check runs on every
// authenticated request.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization
// header.
//
// # Flow
//  1. No Authorization header: the request proceeds as anonymous.
//  2. Malformed header or invalid token: 401.
//  3. Token revoked by a server-side logout: 401.
//  4. Otherwise the claims are injected into the request context.
//
// revocations may be nil, in which case the revocation check is skipped.
func Authenticate(verifier TokenVerifier, revocations TokenRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			if revocations != nil {
				switch revoked, revErr := revocations.IsRevoked(request.Context(), tokenStr); {
				case revErr != nil:
					// Fail open on a store error: availability of the whole
					// API must not hinge on the revocation cache.
					ctxutil.GetLogger(request.Context()).Warn("token_revocation_check_failed",
						slog.Any("error", revErr),
					)
				case revoked:
					respond.Error(writer, request, apperr.Unauthorized("Token has been revoked"))
					return
				}
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
// Must be registered AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRoles blocks requests whose authenticated role is not in the allowed
// set. It implies [RequireAuth], so mounting both is unnecessary.
//
// Access is a flat membership check, matching how the dashboard restricts its
// route groups per role. There is no role hierarchy.
func RequireRoles(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.Role(claims.Role).In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("You do not have enough permissions to perform this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
