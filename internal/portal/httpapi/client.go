// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package httpapi is the REST client the Scolara portal uses to talk to the
API server.

It unwraps the server's standard JSON envelopes ({"data": ...} on success,
{"error": ..., "code": ...} on failure) and classifies failures the way the
session layer requires: a 401 from the identity endpoint wraps
[session.ErrAuthRejected], everything else (timeouts, 5xx, transport faults)
is transient.
*/
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kietvo/scolara/internal/portal/session"
	"github.com/kietvo/scolara/internal/school/identity"
)

// DefaultTimeout bounds each request when the caller's context carries no
// earlier deadline.
const DefaultTimeout = 15 * time.Second

// Client calls the Scolara API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying [http.Client], for tests and for
// callers that need custom transports.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithTimeout overrides [DefaultTimeout].
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) { client.httpClient.Timeout = timeout }
}

// New constructs a [Client] for the API server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// LoginResult is the unwrapped payload of a successful login.
type LoginResult struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        *identity.Profile `json:"user"`
}

// errorEnvelope mirrors the server's error response shape.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

/*
Login exchanges credentials for a bearer credential via POST /api/auth/login.

Rejected credentials surface as an error carrying the server's message; the
caller decides how to present it. The returned credential is not installed
anywhere; feed it to the session store.
*/
func (client *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("httpapi: encode login request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpapi: build login request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("httpapi: login request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, client.apiError(response)
	}

	var envelope struct {
		Data LoginResult `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("httpapi: decode login response: %w", err)
	}
	return &envelope.Data, nil
}

/*
Me resolves a bearer credential into the server-verified profile via
GET /api/auth/me.

A 401 wraps [session.ErrAuthRejected] so the session store can distinguish a
dead credential from a flaky network. Any other failure is transient.
*/
func (client *Client) Me(ctx context.Context, token string) (*identity.Profile, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("httpapi: build profile request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("httpapi: profile request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("httpapi: %w", session.ErrAuthRejected)
	}
	if response.StatusCode != http.StatusOK {
		return nil, client.apiError(response)
	}

	var envelope struct {
		Data identity.Profile `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("httpapi: decode profile response: %w", err)
	}
	return &envelope.Data, nil
}

// Logout revokes the credential server-side via POST /api/auth/logout.
// A 401 is treated as success; the credential is already dead.
func (client *Client) Logout(ctx context.Context, token string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("httpapi: build logout request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("httpapi: logout request failed: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusUnauthorized:
		return nil
	default:
		return client.apiError(response)
	}
}

// apiError decodes the server's error envelope into a plain error, falling
// back to the HTTP status when the body is not the expected shape.
func (client *Client) apiError(response *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("httpapi: server rejected request (%s): %s", envelope.Code, envelope.Error)
	}
	return fmt.Errorf("httpapi: unexpected status %d", response.StatusCode)
}
