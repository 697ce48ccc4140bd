// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package guard gates navigation in the Scolara dashboard based on session
state and role.

Two cooperating policies are supported. The authentication-only gate admits
any logged-in user; the role-restricted gate additionally requires the
verified role to be in an allowed set. Both defer while the session is still
loading — a redirect is never issued from an unresolved state.

# Decision Machine

Each navigation attempt evaluates a fresh session snapshot:

	PENDING            loading; render a neutral indicator, decide nothing
	DENIED_NO_AUTH     no credential; redirect to /login
	DENIED_WRONG_ROLE  role not allowed; redirect to role home (or fallback)
	ALLOWED            render the guarded content

Decisions are never cached: any token, user, or loading change re-evaluates.
*/
package guard

import (
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/portal/session"
)

// State is the outcome class of a navigation decision.
type State int

const (
	// StatePending defers the decision while the session is loading.
	StatePending State = iota
	// StateDeniedNoAuth redirects an anonymous visitor to the login route.
	StateDeniedNoAuth
	// StateDeniedWrongRole redirects an authenticated user whose role is not
	// allowed on the requested route.
	StateDeniedWrongRole
	// StateAllowed renders the guarded content.
	StateAllowed
)

// Decision is the result of evaluating a navigation attempt.
// RedirectTo is non-empty exactly for the two denied states.
type Decision struct {
	State      State
	RedirectTo string
}

// RedirectPolicy selects the target of a wrong-role redirect.
type RedirectPolicy int

const (
	// RedirectRoleHome sends the user to their own role's dashboard.
	// This is a silent navigation correction, not an error page.
	RedirectRoleHome RedirectPolicy = iota
	// RedirectFallback sends the user to a fixed fallback route.
	RedirectFallback
)

// Guard evaluates navigation attempts against a session store.
type Guard struct {
	store         *session.Store
	policy        RedirectPolicy
	fallbackRoute string
}

// Option customizes a [Guard].
type Option func(*Guard)

// WithFallback switches the guard to [RedirectFallback] with the given route.
func WithFallback(route string) Option {
	return func(guard *Guard) {
		guard.policy = RedirectFallback
		guard.fallbackRoute = route
	}
}

// New constructs a [Guard] over the session store.
// The default wrong-role policy is [RedirectRoleHome].
func New(store *session.Store, opts ...Option) *Guard {
	guard := &Guard{store: store, policy: RedirectRoleHome}
	for _, opt := range opts {
		opt(guard)
	}
	return guard
}

// Check evaluates a navigation attempt against the current session state.
//
// With no allowed roles it acts as the authentication-only gate; with one or
// more it also enforces role membership.
func (guard *Guard) Check(allowed ...sec.Role) Decision {
	return guard.evaluate(guard.store.Snapshot(), allowed)
}

// evaluate is the pure decision function over one snapshot.
func (guard *Guard) evaluate(snapshot session.Snapshot, allowed []sec.Role) Decision {
	// Never redirect from an unresolved state.
	if snapshot.Loading {
		return Decision{State: StatePending}
	}

	if snapshot.Token == "" {
		return Decision{State: StateDeniedNoAuth, RedirectTo: LoginRoute}
	}

	// Authentication-only gate: any logged-in user passes.
	if len(allowed) == 0 {
		return Decision{State: StateAllowed}
	}

	// Role-restricted gate. An absent profile (transient fetch failure)
	// means the role is unknown, which is a deny — not a crash, and not a
	// free pass.
	if snapshot.User == nil {
		return guard.denyWrongRole("")
	}

	if snapshot.User.Role.In(allowed...) {
		return Decision{State: StateAllowed}
	}

	return guard.denyWrongRole(snapshot.User.Role)
}

// denyWrongRole builds the wrong-role decision under the configured policy.
func (guard *Guard) denyWrongRole(role sec.Role) Decision {
	target := guard.fallbackRoute
	if guard.policy == RedirectRoleHome {
		target = DashboardPath(role)
	}
	return Decision{State: StateDeniedWrongRole, RedirectTo: target}
}
