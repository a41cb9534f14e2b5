// Package session implements the client-side session lifecycle: the cached
// authentication state derived from the stored credential, the single-slot
// expiry timer, the cross-tab synchronizer, and the route guard.
package session

import (
	"time"

	"github.com/dkarpov/reelmark/internal/client/models"
)

// State is the session cache lifecycle state.
type State int

const (
	// StateUninitialized means no verification has been attempted yet.
	StateUninitialized State = iota

	// StateVerifying means a credential was found and a verify call is in
	// flight; consumers must block on the outcome, not assume either.
	StateVerifying

	// StateAuthenticated means verification succeeded and the session
	// fields are populated.
	StateAuthenticated

	// StateAnonymous means there is no credential, verification failed,
	// logout was executed, or the session expired.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is the in-memory authentication state for one tab. It is owned
// exclusively by the Cache; a zero Expiry means no session is active.
type Session struct {
	User            models.User
	IsAuthenticated bool
	Expiry          time.Time
}
