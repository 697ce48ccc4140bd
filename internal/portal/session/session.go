// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package session is the single authority for "who is logged in" on the client
side of the Scolara dashboard.

It reconciles a locally persisted bearer credential with the server-verified
identity from GET /api/auth/me, exposing exactly three fields to consumers:
token, user, and loading. The route guard bases every navigation decision on
a [Snapshot] of those fields and nothing else.

# State Rules

  - user is only ever non-nil while token is non-empty and the profile fetch
    succeeded.
  - A token transition to non-empty sets loading=true until the fetch settles.
  - A token transition to empty clears user and sets loading=false
    immediately; no fetch is attempted.
  - An authentication rejection from the identity endpoint forces a logout
    regardless of caller intent. Any other fetch failure is non-fatal: the
    token survives, user stays nil, and the UI may degrade.

# Concurrency

Each credential change bumps a generation counter and cancels the in-flight
fetch. A fetch result is applied only if its generation still matches, so a
late response for a superseded credential can never repopulate state; in
particular, once Logout returns, no stale fetch may resurrect the user.
Credential persistence follows the same rule: every durable write carries the
generation it was issued for and is skipped once a newer login or logout has
taken ownership of the stored credential.
*/
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kietvo/scolara/internal/school/identity"
)

// ErrAuthRejected marks a profile-fetch failure caused by the credential
// itself being invalid or expired (an HTTP 401). Implementations of
// [IdentityClient] must wrap this sentinel for that case and only that case;
// timeouts and server errors are transient and must not match it.
var ErrAuthRejected = errors.New("session: credential rejected by identity endpoint")

// DefaultFetchTimeout bounds a single profile fetch. Expiry counts as a
// transient failure, never as an authentication rejection.
const DefaultFetchTimeout = 10 * time.Second

// IdentityClient resolves a bearer credential into a server-verified profile.
type IdentityClient interface {
	Me(ctx context.Context, token string) (*identity.Profile, error)
}

// CredentialStore persists the raw bearer credential across restarts.
// An absent credential loads as ("", nil).
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Snapshot is the immutable view of session state handed to consumers.
type Snapshot struct {
	Token   string
	User    *identity.Profile
	Loading bool
}

// Store holds the current authentication state.
//
// Construct exactly one per application and pass it explicitly to every
// consumer; there is no package-level instance.
type Store struct {
	client       IdentityClient
	creds        CredentialStore
	logger       *slog.Logger
	fetchTimeout time.Duration

	mu          sync.Mutex
	generation  uint64
	cancelFetch context.CancelFunc

	// credMu serializes durable credential writes so a write for a superseded
	// generation can never land after the write that superseded it.
	credMu sync.Mutex

	token   string
	user    *identity.Profile
	loading bool

	subscribers map[uint64]chan Snapshot
	nextSubID   uint64
}

// Option customizes a [Store].
type Option func(*Store)

// WithFetchTimeout overrides [DefaultFetchTimeout] for profile fetches.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(store *Store) { store.fetchTimeout = timeout }
}

// WithLogger attaches a structured logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(store *Store) { store.logger = logger }
}

// New constructs a [Store], restoring any persisted credential.
//
// If a credential is found, the store starts in loading state and kicks off
// the profile fetch immediately, mirroring an application reload with a
// remembered login.
func New(client IdentityClient, creds CredentialStore, opts ...Option) (*Store, error) {
	store := &Store{
		client:       client,
		creds:        creds,
		logger:       slog.Default(),
		fetchTimeout: DefaultFetchTimeout,
		subscribers:  map[uint64]chan Snapshot{},
	}
	for _, opt := range opts {
		opt(store)
	}

	token, err := creds.Load()
	if err != nil {
		return nil, err
	}

	if token != "" {
		store.mu.Lock()
		store.token = token
		store.loading = true
		store.startFetchLocked()
		store.mu.Unlock()
	}

	return store, nil
}

// Login installs a new bearer credential obtained from the authentication
// endpoint and triggers the asynchronous profile fetch.
//
// The credential's contents are not validated here; the identity endpoint is
// the judge. If persisting the credential fails the in-memory session still
// proceeds (it remains valid for this process) and the error is returned so
// the caller can surface it.
func (store *Store) Login(token string) error {
	store.mu.Lock()
	store.generation++
	generation := store.generation
	store.abortFetchLocked()

	store.token = token
	store.user = nil
	store.loading = true
	store.startFetchLocked()
	store.notifyLocked()
	store.mu.Unlock()

	return store.persistCredential(generation, token)
}

// Logout clears the credential and profile synchronously.
//
// After it returns, Token is empty, User is nil, and Loading is false — and
// stays that way even if a delayed fetch for the old credential resolves
// later. Logout is idempotent and never performs a network call.
func (store *Store) Logout() {
	store.mu.Lock()
	store.generation++
	generation := store.generation
	store.abortFetchLocked()

	store.token = ""
	store.user = nil
	store.loading = false
	store.notifyLocked()
	store.mu.Unlock()

	// The in-memory state is authoritative; a failed removal only means the
	// stale credential will be rejected by the server on next restore.
	_ = store.persistCredential(generation, "")
}

// Snapshot returns the current session state.
func (store *Store) Snapshot() Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	return Snapshot{Token: store.token, User: store.user, Loading: store.loading}
}

// Subscribe registers for state-change notifications.
//
// Every login, logout, and fetch settlement delivers a [Snapshot] on the
// returned channel. A slow consumer loses intermediate snapshots, never the
// channel; call the returned cancel function to unsubscribe.
func (store *Store) Subscribe() (<-chan Snapshot, func()) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextSubID
	store.nextSubID++
	channel := make(chan Snapshot, 16)
	store.subscribers[id] = channel

	return channel, func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		delete(store.subscribers, id)
	}
}

// startFetchLocked launches the profile fetch for the current token and
// generation. Caller must hold the mutex.
func (store *Store) startFetchLocked() {
	fetchCtx, cancel := context.WithCancel(context.Background())
	store.cancelFetch = cancel

	go store.fetchProfile(fetchCtx, store.generation, store.token)
}

// abortFetchLocked cancels any in-flight fetch. Caller must hold the mutex.
func (store *Store) abortFetchLocked() {
	if store.cancelFetch != nil {
		store.cancelFetch()
		store.cancelFetch = nil
	}
}

// fetchProfile resolves the credential into a profile and applies the result
// if — and only if — the generation it was issued for is still current.
func (store *Store) fetchProfile(ctx context.Context, generation uint64, token string) {
	fetchCtx, cancel := context.WithTimeout(ctx, store.fetchTimeout)
	defer cancel()

	profile, err := store.client.Me(fetchCtx, token)

	store.mu.Lock()
	defer store.mu.Unlock()

	// A newer credential (or a logout) superseded this fetch. Discard.
	if generation != store.generation {
		return
	}

	if err != nil {
		if errors.Is(err, ErrAuthRejected) {
			// Invalid or expired credential: forced logout.
			store.logger.Info("session_credential_rejected")
			store.generation++
			rejectedGeneration := store.generation
			store.token = ""
			store.user = nil
			store.loading = false
			store.notifyLocked()

			go func() { _ = store.persistCredential(rejectedGeneration, "") }()
			return
		}

		// Transient failure: keep the token, settle without a profile.
		store.logger.Warn("session_profile_fetch_failed", slog.Any("error", err))
		store.loading = false
		store.notifyLocked()
		return
	}

	store.user = profile
	store.loading = false
	store.notifyLocked()
}

// persistCredential writes (token non-empty) or removes (token empty) the
// durable credential on behalf of the given generation.
//
// The write is skipped when a newer login or logout has bumped the generation:
// that newer change owns the stored credential now, and applying the stale
// write would make the durable state disagree with the in-memory session.
// Holding credMu across the staleness check and the write keeps concurrent
// writes ordered so the newest generation always lands last.
func (store *Store) persistCredential(generation uint64, token string) error {
	store.credMu.Lock()
	defer store.credMu.Unlock()

	store.mu.Lock()
	stale := generation != store.generation
	store.mu.Unlock()
	if stale {
		return nil
	}

	if token == "" {
		if err := store.creds.Clear(); err != nil {
			store.logger.Warn("session_credential_clear_failed", slog.Any("error", err))
			return err
		}
		return nil
	}

	if err := store.creds.Save(token); err != nil {
		store.logger.Warn("session_credential_persist_failed", slog.Any("error", err))
		return err
	}
	return nil
}

// notifyLocked delivers the current snapshot to all subscribers without
// blocking. Caller must hold the mutex.
func (store *Store) notifyLocked() {
	snapshot := Snapshot{Token: store.token, User: store.user, Loading: store.loading}
	for _, channel := range store.subscribers {
		select {
		case channel <- snapshot:
		default:
		}
	}
}
