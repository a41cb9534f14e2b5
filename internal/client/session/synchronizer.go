package session

import (
	"context"
	"time"

	"github.com/dkarpov/reelmark/internal/client/store"
	"github.com/dkarpov/reelmark/internal/logging"
)

// DefaultSyncInterval bounds how stale a tab's cache may be relative to the
// shared credential slot.
const DefaultSyncInterval = time.Second

// Synchronizer watches the credential slot for mutations made by other tabs
// and feeds them to the cache as Change events. It carries no state beyond
// the last observed slot value and never decides transitions itself.
type Synchronizer struct {
	store    store.Store
	cache    *Cache
	interval time.Duration
	logger   logging.Logger
}

func NewSynchronizer(st store.Store, cache *Cache, interval time.Duration, logger logging.Logger) *Synchronizer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Synchronizer{
		store:    st,
		cache:    cache,
		interval: interval,
		logger:   logger.With("module", "session_sync"),
	}
}

// Run polls the slot until ctx is cancelled. The last observed value is
// seeded from the cache's own view of the credential rather than the slot:
// a credential the cache already holds does not replay as an external login,
// while one that failed boot verification transiently still differs from the
// seed and is retried on the first tick.
func (s *Synchronizer) Run(ctx context.Context) {
	last := s.cache.knownCredential()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			last = s.tick(ctx, last)
		}
	}
}

// tick performs one poll and returns the new last-observed value. A change
// that could not be applied does not advance the observed value, so the
// reconciliation is retried on the next tick instead of being lost.
func (s *Synchronizer) tick(ctx context.Context, last string) string {
	current, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Error(ctx, "slot read failed", "error", err)
		return last
	}

	if current == last {
		return last
	}

	if err := s.cache.HandleChange(ctx, store.Change{Old: last, New: current}); err != nil {
		s.logger.Warn(ctx, "change handling failed, will retry", "error", err)
		return last
	}

	return current
}
