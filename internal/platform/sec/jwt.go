// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// Security-sensitive code (hashing, JWT signing) is isolated here so domain
// services depend on it only through narrow interfaces, which keeps tests
// free of real key material.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the payload embedded inside a Scolara access token.
//
// The claims carry the user ID, role, and school scope directly, so the API
// middleware can reconstruct the request identity without a database round
// trip. The authoritative profile still comes from GET /api/auth/me.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
}

// TokenService signs and verifies HS256 access tokens.
//
// HS256 with a shared secret matches the deployment model: a single API
// server both issues and verifies every token.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService from the configured signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, errors.New("sec: signing secret must be at least 32 bytes")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// GenerateAccessToken creates a signed access token for a user.
func (service *TokenService) GenerateAccessToken(userID string, role Role, schoolID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Role:     string(role),
		SchoolID: schoolID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
