// Package services contains application services for the Connectin client.
// This file defines the authentication service: login, logout with session
// teardown, and the liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/connectin/internal/client/client"
	"github.com/dmitrijs2005/connectin/internal/client/credentials"
	"github.com/dmitrijs2005/connectin/internal/client/models"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the bearer token.
//   - Logout: wipe the stored session and tear down session-scoped state.
//   - WhoAmI: the user of the stored, unexpired session.
//   - Ping: check server liveness.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (string, bool)
	Ping(ctx context.Context) error
}

// SessionStore is where the token lives between commands.
// *credentials.Store implements it.
type SessionStore interface {
	credentials.Accessor
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
	Username(ctx context.Context) (string, error)
}

type authService struct {
	client   client.Client
	sessions SessionStore
	onLogout []func()
}

// NewAuthService constructs an AuthService. onLogout hooks run after the
// session is cleared, e.g. resetting the vote store and closing chats.
func NewAuthService(c client.Client, sessions SessionStore, onLogout ...func()) AuthService {
	return &authService{client: c, sessions: sessions, onLogout: onLogout}
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	sess, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	// a previous user's state must not leak into the new session
	a.teardown()

	if err := a.sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.sessions.Clear(ctx)
	a.teardown()
	if err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (a *authService) teardown() {
	for _, fn := range a.onLogout {
		fn()
	}
}

func (a *authService) WhoAmI(ctx context.Context) (string, bool) {
	if _, ok := a.sessions.CurrentToken(ctx); !ok {
		return "", false
	}
	name, err := a.sessions.Username(ctx)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
