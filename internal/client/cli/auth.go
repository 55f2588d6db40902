package cli

import (
	"context"
	"errors"
	"os"

	"paneldesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate against
// the backend. On success the user name is kept for the prompt; the API
// client stores the issued token pair internally.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, userName, password); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			printlnFn("Server unavailable, try again later")
			return nil
		}
		return err
	}

	a.userName = userName
	printlnFn("Logged in as", userName)
	return nil
}

// Logout drops the session on the backend and clears the local user state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	return nil
}

// Ping probes backend reachability and reports the result.
func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		printlnFn("Backend unreachable:", err.Error())
		return nil
	}
	printlnFn("Backend is up")
	return nil
}
