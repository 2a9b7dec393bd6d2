package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/cryptox"
)

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, name and password and creates the account.
// The password is wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < cryptox.MinPasswordLength {
		return cryptox.ErrPasswordTooShort
	}

	if err := a.authService.Register(ctx, email, password, name); err != nil {
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and refreshes the session store.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", u.DisplayName()))
	return nil
}

// Logout always succeeds locally and returns to the home route.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.authService.Logout(ctx)
	a.router.Navigate("/")
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	return a.open(ctx, "/profile", func(ctx context.Context) error {
		printUser(a.out, a.store.User())
		return nil
	})
}

func (a *App) Where(ctx context.Context, _ []string) error {
	printlnFn("Current:", a.router.Current())
	if h := a.router.History(); len(h) > 0 {
		printlnFn("History:", h)
	}
	return nil
}
