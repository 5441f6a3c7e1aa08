package cli

import (
	"bufio"
	"context"
	"errors"

	"github.com/dmitrijs2005/connectin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. A successful login
// replaces any previous session, including cached votes and open chats.
func (a *App) Login(ctx context.Context, sc *bufio.Scanner) error {
	userName, err := getSimpleText(sc, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(sc, a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthenticated):
			printlnFn("Login unsuccessful: wrong username or password")
		case errors.Is(err, common.ErrNetworkFailure):
			printlnFn("Login unsuccessful: server unavailable")
		default:
			printlnFn("Login unsuccessful:", err)
		}
		a.log.Warn(ctx, "login failed", "user", userName, "error", err)
		return err
	}

	a.setUserName(userName)
	printlnFn("Login successful")
	return nil
}

// Logout forgets the session, resets cached votes and closes chats.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.setUserName("")
	if err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	name, ok := a.authService.WhoAmI(ctx)
	if !ok {
		a.setUserName("")
		printlnFn("Not logged in")
		return nil
	}
	a.setUserName(name)
	printlnFn("Logged in as", name)
	return nil
}
