package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dkarpov/reelmark/internal/client/api"
	"github.com/dkarpov/reelmark/internal/client/config"
	"github.com/dkarpov/reelmark/internal/client/session"
	"github.com/dkarpov/reelmark/internal/client/store"
	"github.com/dkarpov/reelmark/internal/logging"
)

type App struct {
	config *config.Config
	cache  *session.Cache
	sync   *session.Synchronizer
	closer func() error
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	db, err := store.OpenDB(c.StorePath)
	if err != nil {
		log.Printf("error opening credential store: %s", err.Error())
		return nil, err
	}

	st := store.NewSQLiteStore(db)
	authority := api.NewHTTPAuthority(c.ServerBaseURL)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cache := session.NewCache(st, authority, session.NewTimerScheduler(), session.Config{
		SessionTTL:    c.SessionTTL,
		ExpiryWarning: c.ExpiryWarning,
	}, logger)

	sync := session.NewSynchronizer(st, cache, c.SyncInterval, logger)

	return &App{
		config: c,
		cache:  cache,
		sync:   sync,
		closer: db.Close,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run initializes the session from the stored credential, starts the slot
// watcher so logins and logouts from other processes propagate, then hands
// control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.closer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.cache.Init(ctx); err != nil {
		log.Printf("session verification failed: %s (continuing offline)", err.Error())
	}

	go a.sync.Run(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.cache.IsAuthenticated()
}

func (a *App) statusLine() string {
	user, ok := a.cache.CurrentUser()
	if !ok {
		return "anonymous"
	}
	if a.cache.IsSessionExpiringSoon() {
		return user.Username + " (session expiring soon)"
	}
	return user.Username
}
