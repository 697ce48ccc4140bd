// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Command scolctl is a terminal client for the Scolara API, built on the same
session store and route guard the dashboard uses.

Usage:

	scolctl login -email you@school.edu -password secret
	scolctl whoami
	scolctl open [route]
	scolctl logout

Configuration comes from the environment:

	SCOLARA_API_URL   base URL of the API server (default http://localhost:8080)

The bearer credential persists under the user config directory, so login
survives across invocations until logout or server-side revocation.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/portal/guard"
	"github.com/kietvo/scolara/internal/portal/httpapi"
	"github.com/kietvo/scolara/internal/portal/session"
)

// cliConfig is the environment-derived configuration for scolctl.
type cliConfig struct {
	APIURL string `env:"SCOLARA_API_URL" envDefault:"http://localhost:8080"`
}

// waitForSettle blocks until the session leaves its loading state.
const settleTimeout = 20 * time.Second

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := env.ParseAs[cliConfig]()
	if err != nil {
		fatal("load configuration: %v", err)
	}

	credPath, err := session.DefaultCredentialPath()
	if err != nil {
		fatal("resolve credential path: %v", err)
	}

	client := httpapi.New(cfg.APIURL)
	creds := session.NewFileStore(credPath)

	store, err := session.New(client, creds, session.WithLogger(log))
	if err != nil {
		fatal("restore session: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, client, store, os.Args[2:])
	case "logout":
		err = runLogout(ctx, client, store)
	case "whoami":
		err = runWhoami(ctx, store)
	case "open":
		err = runOpen(ctx, store, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fatal("%v", err)
	}
}

func runLogin(ctx context.Context, client *httpapi.Client, store *session.Store, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	result, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	if err := store.Login(result.AccessToken); err != nil {
		// The session is live for this process but will not survive it.
		fmt.Fprintf(os.Stderr, "warning: credential not persisted: %v\n", err)
	}

	snapshot, err := settle(ctx, store)
	if err != nil {
		return err
	}
	if snapshot.User == nil {
		fmt.Println("logged in (profile unavailable, will retry on next command)")
		return nil
	}

	fmt.Printf("logged in as %s <%s> (%s)\n", snapshot.User.Name, snapshot.User.Email, snapshot.User.Role)
	return nil
}

func runLogout(ctx context.Context, client *httpapi.Client, store *session.Store) error {
	snapshot := store.Snapshot()
	if snapshot.Token != "" {
		// Best effort revocation; the local logout is unconditional.
		if err := client.Logout(ctx, snapshot.Token); err != nil {
			fmt.Fprintf(os.Stderr, "warning: server-side revocation failed: %v\n", err)
		}
	}
	store.Logout()
	fmt.Println("logged out")
	return nil
}

func runWhoami(ctx context.Context, store *session.Store) error {
	snapshot, err := settle(ctx, store)
	if err != nil {
		return err
	}

	if snapshot.Token == "" {
		fmt.Println("not logged in")
		return nil
	}
	if snapshot.User == nil {
		fmt.Println("logged in, but the profile could not be fetched")
		return nil
	}

	fmt.Printf("name:    %s\n", snapshot.User.Name)
	fmt.Printf("email:   %s\n", snapshot.User.Email)
	fmt.Printf("role:    %s\n", snapshot.User.Role)
	if snapshot.User.SchoolID != "" {
		fmt.Printf("school:  %s\n", snapshot.User.SchoolID)
	}
	return nil
}

/*
runOpen resolves where a navigation attempt would land, applying the same
guard the dashboard applies. With no argument it opens the user's own
dashboard home.
*/
func runOpen(ctx context.Context, store *session.Store, args []string) error {
	if _, err := settle(ctx, store); err != nil {
		return err
	}

	routeGuard := guard.New(store)

	var decision guard.Decision
	if len(args) == 0 {
		decision = routeGuard.Check()
		if decision.State == guard.StateAllowed {
			snapshot := store.Snapshot()
			role := sec.Role("")
			if snapshot.User != nil {
				role = snapshot.User.Role
			}
			fmt.Println(guard.DashboardPath(role))
			return nil
		}
	} else {
		decision = routeGuard.Check(routeRoles(args[0])...)
	}

	switch decision.State {
	case guard.StateAllowed:
		fmt.Println(args[0])
	case guard.StateDeniedNoAuth, guard.StateDeniedWrongRole:
		fmt.Printf("redirected to %s\n", decision.RedirectTo)
	case guard.StatePending:
		fmt.Println("session still loading, try again")
	}
	return nil
}

// routeRoles maps a dashboard route to the roles allowed on it.
func routeRoles(route string) []sec.Role {
	switch route {
	case guard.SuperAdminDashboard:
		return []sec.Role{sec.RoleSuperAdmin}
	case guard.SchoolAdminDashboard:
		return []sec.Role{sec.RoleSchoolAdmin}
	case guard.TeacherDashboard:
		return []sec.Role{sec.RoleTeacher}
	case guard.StudentDashboard:
		return []sec.Role{sec.RoleStudent}
	default:
		// Unknown routes require authentication only.
		return nil
	}
}

// settle waits for the profile fetch to finish so output reflects the final
// session state rather than the transient loading one.
func settle(ctx context.Context, store *session.Store) (session.Snapshot, error) {
	snapshot := store.Snapshot()
	if !snapshot.Loading {
		return snapshot, nil
	}

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	// Re-check after subscribing; the fetch may have settled in between.
	if snapshot = store.Snapshot(); !snapshot.Loading {
		return snapshot, nil
	}

	for {
		select {
		case snapshot = <-updates:
			if !snapshot.Loading {
				return snapshot, nil
			}
		case <-ctx.Done():
			return session.Snapshot{}, fmt.Errorf("timed out waiting for session: %w", ctx.Err())
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scolctl <login|logout|whoami|open> [flags]")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "scolctl: "+format+"\n", args...)
	os.Exit(1)
}
