package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dkarpov/reelmark/internal/client/api"
	"github.com/dkarpov/reelmark/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if err := a.cache.Register(ctx, username, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			printlnFn("Registration failed: email is already in use")
		case errors.Is(err, common.ErrValidation):
			printlnFn("Registration failed: please check the entered values")
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Registration failed:", err.Error())
		}
		return err
	}

	printlnFn("Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if err := a.cache.Login(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			printlnFn("Login failed: invalid email or password")
		case errors.Is(err, common.ErrRateLimited):
			printlnFn("Too many attempts, try again later")
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	printlnFn("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.cache.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	sess := a.cache.Current()
	if !a.cache.IsAuthenticated() {
		printlnFn("Not logged in (state:", a.cache.State().String()+")")
		return nil
	}

	printlnFn(fmt.Sprintf("Logged in as %s <%s>", sess.User.Username, sess.User.Email))
	printlnFn("Session expires at", sess.Expiry.Format("2006-01-02 15:04:05"))
	if a.cache.IsSessionExpiringSoon() {
		printlnFn("Warning: session is expiring soon, log in again to extend it")
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return api.ErrUnauthorized
	}

	printlnFn("Leave a field empty to keep its current value")

	username, err := GetSimpleText(a.reader, "New username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "New email", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := GetPassword("New password (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	patch := api.ProfilePatch{Username: username, Email: email}
	if newPassword != "" {
		current, err := GetPassword("Current password", os.Stdout)
		if err != nil {
			return err
		}
		patch.NewPassword = newPassword
		patch.CurrentPassword = current
	}

	user, err := a.cache.UpdateProfile(ctx, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			printlnFn("Update failed: email is already in use")
		case errors.Is(err, api.ErrUnauthorized):
			printlnFn("Update failed: session is no longer valid, log in again")
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Update failed:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Profile updated: %s <%s>", user.Username, user.Email))
	return nil
}
