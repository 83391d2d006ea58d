package usecase

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"seatgate/internal/domain"
)

// interactionTracker records recent input/focus/click activity on the access
// surface. The flag is a soft lock: pollers consult it before disruptive
// actions but observations are still collected while it is set.
type interactionTracker struct {
	mu          sync.Mutex
	interacting bool
	lastAt      time.Time
	settle      func(func())
}

func newInteractionTracker(quiet time.Duration) *interactionTracker {
	if quiet <= 0 {
		quiet = 2 * time.Second
	}
	return &interactionTracker{settle: debounce.New(quiet)}
}

// Track marks the visitor as engaged and re-arms the quiet-period timer.
func (t *interactionTracker) Track() {
	t.mu.Lock()
	t.interacting = true
	t.lastAt = time.Now()
	t.mu.Unlock()

	t.settle(t.quiesce)
}

func (t *interactionTracker) quiesce() {
	t.mu.Lock()
	t.interacting = false
	t.mu.Unlock()
}

// Interacting reports whether the quiet period has elapsed since the last
// tracked event.
func (t *interactionTracker) Interacting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interacting
}

func (t *interactionTracker) State() domain.InteractionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.InteractionState{Interacting: t.interacting, LastInteractionAt: t.lastAt}
}
