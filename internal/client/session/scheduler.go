package session

import (
	"sync"
	"time"
)

// Scheduler is a single-slot timer: arming replaces any pending timer, so at
// most one expiry callback can ever be outstanding per session cache.
type Scheduler interface {
	// Arm schedules onFire to run at the given instant, cancelling any
	// previously armed timer. An instant already in the past fires onFire
	// on its own goroutine right away.
	Arm(at time.Time, onFire func())

	// Disarm cancels a pending timer; it is a no-op if none is armed.
	Disarm()
}

// TimerScheduler implements Scheduler on top of time.AfterFunc.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Arm(at time.Time, onFire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	s.timer = time.AfterFunc(d, onFire)
}

func (s *TimerScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
