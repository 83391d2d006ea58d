package usecase

import (
	"sync"
	"time"
)

// timerKind names every countdown and poll interval the coordinator may hold.
// At most one live handle exists per kind; starting a new one cancels the
// prior handle first.
type timerKind string

const (
	timerSession      timerKind = "session"
	timerClaim        timerKind = "claim"
	timerQueuePoll    timerKind = "queue_poll"
	timerCleanupPoll  timerKind = "cleanup_poll"
	timerStatusPoll   timerKind = "status_poll"
	timerRefreshDelay timerKind = "refresh_delay"
	timerResetDelay   timerKind = "reset_delay"
	timerResync       timerKind = "resync"
)

// timerSet manages named recurring and one-shot timers. Cancellation is
// cooperative: it closes the handle's stop channel without waiting for the
// goroutine, so a callback may cancel its own kind safely. Callbacks that can
// race a cancellation must re-check coordinator state before acting.
type timerSet struct {
	mu      sync.Mutex
	handles map[timerKind]chan struct{}
}

func newTimerSet() *timerSet {
	return &timerSet{handles: make(map[timerKind]chan struct{})}
}

// startRepeating runs fn every interval until the handle is cancelled or
// replaced.
func (s *timerSet) startRepeating(kind timerKind, interval time.Duration, fn func()) {
	stop := s.arm(kind)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// startOnce runs fn once after delay unless cancelled or replaced first.
func (s *timerSet) startOnce(kind timerKind, delay time.Duration, fn func()) {
	stop := s.arm(kind)
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-stop:
			return
		case <-timer.C:
			s.disarm(kind, stop)
			fn()
		}
	}()
}

func (s *timerSet) cancel(kind timerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.handles[kind]; ok {
		close(stop)
		delete(s.handles, kind)
	}
}

func (s *timerSet) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, stop := range s.handles {
		close(stop)
		delete(s.handles, kind)
	}
}

// active reports whether a live handle exists for kind.
func (s *timerSet) active(kind timerKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.handles[kind]
	return ok
}

func (s *timerSet) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// arm replaces any prior handle for kind and returns the fresh stop channel.
func (s *timerSet) arm(kind timerKind) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prior, ok := s.handles[kind]; ok {
		close(prior)
	}
	stop := make(chan struct{})
	s.handles[kind] = stop
	return stop
}

// disarm removes the handle only if it is still the one that fired.
func (s *timerSet) disarm(kind timerKind, stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.handles[kind]; ok && current == stop {
		delete(s.handles, kind)
	}
}
