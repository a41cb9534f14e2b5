package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkarpov/reelmark/internal/client/api"
	"github.com/dkarpov/reelmark/internal/client/models"
	"github.com/dkarpov/reelmark/internal/client/store"
	"github.com/dkarpov/reelmark/internal/credential"
	"github.com/dkarpov/reelmark/internal/logging"
)

const (
	// DefaultSessionTTL is the client-side policy window: a session is
	// force-logged-out this long after verification or login, regardless of
	// the expiry the authority embedded in the credential. Whichever window
	// closes first wins — the authority enforces its own by rejecting
	// verify calls.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultExpiryWarning is how long before forced logout
	// IsSessionExpiringSoon starts returning true.
	DefaultExpiryWarning = 30 * time.Minute
)

// Config carries the cache's timing policy. Zero values fall back to the
// package defaults.
type Config struct {
	SessionTTL    time.Duration
	ExpiryWarning time.Duration
}

// Cache is the single source of truth for the tab's authentication state.
// It owns the Session exclusively: other components request transitions
// (Init, Login, Register, Logout, HandleChange) and read snapshots, they
// never write state directly. Its only side effects are reading/writing the
// credential store, calling the authority, and arming/disarming the
// scheduler.
type Cache struct {
	store     store.Store
	authority api.Authority
	scheduler Scheduler
	logger    logging.Logger

	sessionTTL time.Duration
	warnWindow time.Duration
	now        func() time.Time

	mu         sync.Mutex
	state      State
	session    Session
	credential string
}

func NewCache(st store.Store, authority api.Authority, scheduler Scheduler, cfg Config, logger logging.Logger) *Cache {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ExpiryWarning <= 0 {
		cfg.ExpiryWarning = DefaultExpiryWarning
	}
	return &Cache{
		store:      st,
		authority:  authority,
		scheduler:  scheduler,
		logger:     logger.With("module", "session_cache"),
		sessionTTL: cfg.SessionTTL,
		warnWindow: cfg.ExpiryWarning,
		now:        time.Now,
	}
}

// Init runs the boot verification path: read the slot, short-circuit on an
// absent or malformed credential, otherwise verify against the authority.
// A malformed value is cleared without a network call. Init returns an error
// only for transient failures (the authority unreachable); an explicit
// rejection lands in Anonymous and returns nil.
func (c *Cache) Init(ctx context.Context) error {
	raw, err := c.store.Get(ctx)
	if err != nil {
		c.toAnonymous()
		return err
	}

	if raw == "" {
		c.toAnonymous()
		return nil
	}

	if !credential.IsWellFormed(raw) {
		c.logger.Warn(ctx, "malformed credential in store, clearing")
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Error(ctx, "failed to clear malformed credential", "error", err)
		}
		c.toAnonymous()
		return nil
	}

	c.mu.Lock()
	c.state = StateVerifying
	c.mu.Unlock()

	return c.verify(ctx, raw)
}

// verify runs one verification round trip and applies the outcome, unless
// the slot moved while the call was in flight — a result that no longer
// matches the store's current value is stale and discarded.
func (c *Cache) verify(ctx context.Context, raw string) error {
	user, err := c.authority.Verify(ctx, raw)

	current, serr := c.store.Get(ctx)
	if serr == nil && current != raw {
		c.logger.Warn(ctx, "discarding stale verify result")
		if current == "" {
			c.scheduler.Disarm()
			c.toAnonymous()
		}
		// a replacement credential is the synchronizer's job
		return nil
	}

	switch {
	case err == nil:
		c.establish(user, raw)
		return nil

	case errors.Is(err, api.ErrUnauthorized):
		// explicit rejection: the credential is dead, purge it
		if cerr := c.store.Clear(ctx); cerr != nil {
			c.logger.Error(ctx, "failed to clear rejected credential", "error", cerr)
		}
		c.scheduler.Disarm()
		c.toAnonymous()
		return nil

	default:
		// transient failure: never destroy the session, keep the credential
		c.logger.Warn(ctx, "verification failed transiently", "error", err)
		c.mu.Lock()
		if c.state == StateVerifying {
			c.state = StateAnonymous
		}
		c.mu.Unlock()
		return err
	}
}

// Login authenticates against the authority, persists the fresh credential,
// and establishes the session. On failure the cache state is left untouched.
func (c *Cache) Login(ctx context.Context, email, password string) error {
	user, cred, err := c.authority.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, cred); err != nil {
		return err
	}

	c.establish(user, cred)
	return nil
}

// Register creates an account, persists the issued credential, and
// establishes the session.
func (c *Cache) Register(ctx context.Context, username, email, password string) error {
	user, cred, err := c.authority.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, cred); err != nil {
		return err
	}

	c.establish(user, cred)
	return nil
}

// Logout clears the credential slot, disarms the expiry timer, and resets
// the session. Other tabs observe the slot mutation and follow.
func (c *Cache) Logout(ctx context.Context) error {
	c.scheduler.Disarm()
	err := c.store.Clear(ctx)
	c.toAnonymous()
	return err
}

// UpdateProfile patches the profile on the authority and refreshes the
// cached user on success. An explicit rejection purges the session like any
// other unauthorized outcome.
func (c *Cache) UpdateProfile(ctx context.Context, patch api.ProfilePatch) (*models.User, error) {
	c.mu.Lock()
	raw := c.credential
	c.mu.Unlock()

	if raw == "" {
		return nil, api.ErrUnauthorized
	}

	user, err := c.authority.UpdateProfile(ctx, raw, patch)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			_ = c.store.Clear(ctx)
			c.scheduler.Disarm()
			c.toAnonymous()
		}
		return nil, err
	}

	c.mu.Lock()
	if c.state == StateAuthenticated {
		c.session.User = *user
	}
	c.mu.Unlock()

	return user, nil
}

// HandleChange applies an externally observed slot mutation. Removal is
// authoritative and needs no round trip; a replacement re-runs the boot
// verification path for the new value; anything else is ignored.
func (c *Cache) HandleChange(ctx context.Context, ch store.Change) error {
	c.mu.Lock()
	known := c.credential
	c.mu.Unlock()

	switch {
	case ch.New == "":
		c.scheduler.Disarm()
		c.toAnonymous()
		return nil

	case ch.New == known:
		return nil

	default:
		if !credential.IsWellFormed(ch.New) {
			if err := c.store.Clear(ctx); err != nil {
				c.logger.Error(ctx, "failed to clear malformed credential", "error", err)
			}
			c.scheduler.Disarm()
			c.toAnonymous()
			return nil
		}

		c.mu.Lock()
		if c.state != StateAuthenticated {
			c.state = StateVerifying
		}
		c.mu.Unlock()

		return c.verify(ctx, ch.New)
	}
}

// establish installs an authenticated session and (re)arms the expiry timer
// for the fresh policy window. Arming implicitly cancels any stale timer.
func (c *Cache) establish(user *models.User, raw string) {
	expiry := c.now().Add(c.sessionTTL)

	c.mu.Lock()
	c.state = StateAuthenticated
	c.session = Session{User: *user, IsAuthenticated: true, Expiry: expiry}
	c.credential = raw
	c.mu.Unlock()

	c.scheduler.Arm(expiry, c.handleExpiry)
}

// handleExpiry is the scheduler callback: forced logout. A timer that fires
// after a newer session was established is ignored.
func (c *Cache) handleExpiry() {
	ctx := context.Background()

	c.mu.Lock()
	if c.state != StateAuthenticated || c.now().Before(c.session.Expiry) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.logger.Info(ctx, "session expired, forcing logout")
	c.scheduler.Disarm()
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear expired credential", "error", err)
	}
	c.toAnonymous()
}

// knownCredential is the credential the cache last applied; empty while
// anonymous or after a verification that never completed.
func (c *Cache) knownCredential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential
}

func (c *Cache) toAnonymous() {
	c.mu.Lock()
	c.state = StateAnonymous
	c.session = Session{}
	c.credential = ""
	c.mu.Unlock()
}

// State returns the effective lifecycle state. A session whose policy window
// has already passed reads as Anonymous even if the timer callback has not
// run yet: expiry closes access with no grace window.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveStateLocked()
}

func (c *Cache) effectiveStateLocked() State {
	if c.state == StateAuthenticated && !c.now().Before(c.session.Expiry) {
		return StateAnonymous
	}
	return c.state
}

// IsAuthenticated reports whether a live, unexpired session is held.
func (c *Cache) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveStateLocked() == StateAuthenticated
}

// CurrentUser returns the session's user. ok is false outside a live session.
func (c *Cache) CurrentUser() (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.effectiveStateLocked() != StateAuthenticated {
		return models.User{}, false
	}
	return c.session.User, true
}

// Current returns a snapshot of the session value.
func (c *Cache) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// IsSessionExpiringSoon reports whether less than the warning window remains
// before forced logout, for optional UI nudging.
func (c *Cache) IsSessionExpiringSoon() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.effectiveStateLocked() != StateAuthenticated {
		return false
	}
	remaining := c.session.Expiry.Sub(c.now())
	return remaining > 0 && remaining < c.warnWindow
}
