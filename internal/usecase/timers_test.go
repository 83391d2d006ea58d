package usecase

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerSetRepeatingFiresUntilCancelled(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	var fires atomic.Int64
	set.startRepeating(timerQueuePoll, 10*time.Millisecond, func() { fires.Add(1) })

	deadline := time.After(2 * time.Second)
	for fires.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("repeating timer fired %d times", fires.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	set.cancel(timerQueuePoll)
	if set.active(timerQueuePoll) {
		t.Fatalf("handle should be gone after cancel")
	}

	settled := fires.Load()
	time.Sleep(60 * time.Millisecond)
	// One in-flight tick may land after cancel; the stream must stop there.
	if fires.Load() > settled+1 {
		t.Fatalf("timer kept firing after cancel: %d -> %d", settled, fires.Load())
	}
}

func TestTimerSetReplacingKeepsOneLiveHandle(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	var old, fresh atomic.Int64
	set.startRepeating(timerSession, 10*time.Millisecond, func() { old.Add(1) })
	set.startRepeating(timerSession, 10*time.Millisecond, func() { fresh.Add(1) })

	if got := set.activeCount(); got != 1 {
		t.Fatalf("expected a single live handle, got %d", got)
	}

	deadline := time.After(2 * time.Second)
	for fresh.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("replacement timer never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	stale := old.Load()
	time.Sleep(60 * time.Millisecond)
	if old.Load() > stale+1 {
		t.Fatalf("replaced timer kept firing")
	}
}

func TestTimerSetOnceFiresAndDisarms(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	fired := make(chan struct{})
	set.startOnce(timerRefreshDelay, 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("one-shot timer never fired")
	}

	deadline := time.After(2 * time.Second)
	for set.active(timerRefreshDelay) {
		select {
		case <-deadline:
			t.Fatalf("one-shot handle not disarmed after firing")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestTimerSetOnceCancelledBeforeFiring(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	fired := make(chan struct{})
	set.startOnce(timerResetDelay, 50*time.Millisecond, func() { close(fired) })
	set.cancel(timerResetDelay)

	select {
	case <-fired:
		t.Fatalf("cancelled one-shot still fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTimerSetCancelAll(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	set.startRepeating(timerSession, time.Hour, func() {})
	set.startRepeating(timerQueuePoll, time.Hour, func() {})
	set.startOnce(timerResync, time.Hour, func() {})

	if got := set.activeCount(); got != 3 {
		t.Fatalf("expected 3 live handles, got %d", got)
	}
	set.cancelAll()
	if got := set.activeCount(); got != 0 {
		t.Fatalf("expected no live handles, got %d", got)
	}
}

func TestTimerSetCallbackMayCancelOwnKind(t *testing.T) {
	t.Parallel()

	set := newTimerSet()
	fired := make(chan struct{}, 1)
	set.startRepeating(timerClaim, 10*time.Millisecond, func() {
		set.cancel(timerClaim)
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("self-cancelling callback never ran")
	}
	time.Sleep(40 * time.Millisecond)
	if set.active(timerClaim) {
		t.Fatalf("self-cancelled handle still live")
	}
}
