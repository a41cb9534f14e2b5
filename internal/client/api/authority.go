// Package api contains the client for the session authority.
package api

import (
	"context"
	"errors"

	"github.com/dkarpov/reelmark/internal/client/models"
)

var (
	// ErrUnavailable marks transport-level failures: the authority could not
	// be reached or answered with a server error. Callers must not treat it
	// as a rejection — an existing session survives it.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks an explicit rejection by the authority: bad
	// login credentials or an invalid/expired credential on verify.
	ErrUnauthorized = errors.New("unauthorized")
)

// ProfilePatch is a partial profile update; empty fields stay unchanged.
type ProfilePatch struct {
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// Authority is the remote session authority surface used by the session
// cache. Verify is idempotent and never mutates the credential.
type Authority interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Verify(ctx context.Context, credential string) (*models.User, error)
	UpdateProfile(ctx context.Context, credential string, patch ProfilePatch) (*models.User, error)
}
