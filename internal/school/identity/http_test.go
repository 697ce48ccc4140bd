// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/platform/middleware"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/school/identity"
)

// newAuthServer mounts the authentication routes behind the real bearer
// middleware, the way the API server wires them.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokenService, err := sec.NewTokenService(testSigningSecret, "scolara.test")
	require.NoError(t, err)

	revocations := newMemoryRevocations()
	service := identity.NewService(newMemoryUserRepository(), revocations, tokenService)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenService, revocations))
	router.Mount("/api/auth", identity.NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, client *http.Client, url, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.Do(request)
	require.NoError(t, err)
	return response
}

func getWithToken(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()
	request, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.Do(request)
	require.NoError(t, err)
	return response
}

func decodeEnvelope(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	return envelope
}

/*
TestAuthFlow walks the credential lifecycle the dashboard relies on:
signup, login, profile fetch, server-side logout, and the 401 that follows.
*/
func TestAuthFlow(t *testing.T) {
	server := newAuthServer(t)
	client := server.Client()

	// Signup.
	response := postJSON(t, client, server.URL+"/api/auth/signup", "", map[string]string{
		"name":      "Alice",
		"email":     "alice@school.edu",
		"password":  "s3cret-pass",
		"role":      "teacher",
		"school_id": "school-9",
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	created := decodeEnvelope(t, response)["data"].(map[string]any)
	assert.Equal(t, "teacher", created["role"])
	assert.NotContains(t, created, "password")
	assert.NotContains(t, created, "password_hash")

	// Login yields the bearer credential and an embedded profile.
	response = postJSON(t, client, server.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@school.edu",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	loginData := decodeEnvelope(t, response)["data"].(map[string]any)
	token, _ := loginData["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "bearer", loginData["token_type"])

	// The profile endpoint resolves the credential.
	response = getWithToken(t, client, server.URL+"/api/auth/me", token)
	require.Equal(t, http.StatusOK, response.StatusCode)
	profile := decodeEnvelope(t, response)["data"].(map[string]any)
	assert.Equal(t, "alice@school.edu", profile["email"])
	assert.Equal(t, "school-9", profile["school_id"])

	// Without a credential, /me is a 401.
	response = getWithToken(t, client, server.URL+"/api/auth/me", "")
	response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	// Server-side logout revokes the credential.
	response = postJSON(t, client, server.URL+"/api/auth/logout", token, struct{}{})
	response.Body.Close()
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	// The revoked credential now fails, which is exactly the signal that
	// forces the dashboard's client-side logout.
	response = getWithToken(t, client, server.URL+"/api/auth/me", token)
	response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

/*
TestAuthFlow_LoginValidation checks malformed and rejected login attempts.
*/
func TestAuthFlow_LoginValidation(t *testing.T) {
	server := newAuthServer(t)
	client := server.Client()

	response := postJSON(t, client, server.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@school.edu",
	})
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = postJSON(t, client, server.URL+"/api/auth/login", "", map[string]string{
		"email":    "nobody@school.edu",
		"password": "whatever1",
	})
	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	defer response.Body.Close()

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "Incorrect email or password", envelope.Error)
}

/*
TestAuthFlow_SignupValidation checks role and school_id validation rules.
*/
func TestAuthFlow_SignupValidation(t *testing.T) {
	server := newAuthServer(t)
	client := server.Client()

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{
			name: "unknown_role",
			payload: map[string]string{
				"name": "X", "email": "x@school.edu", "password": "longenough",
				"role": "principal", "school_id": "school-1",
			},
		},
		{
			name: "school_role_without_school",
			payload: map[string]string{
				"name": "X", "email": "x@school.edu", "password": "longenough",
				"role": "teacher",
			},
		},
		{
			name: "short_password",
			payload: map[string]string{
				"name": "X", "email": "x@school.edu", "password": "short",
				"role": "teacher", "school_id": "school-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := postJSON(t, client, server.URL+"/api/auth/signup", "", tt.payload)
			defer response.Body.Close()
			assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		})
	}
}
