package usecase

import (
	"fmt"
	"time"

	"seatgate/internal/domain"
)

// startQueueMonitor begins the fixed-interval queue poll with an immediate
// first check so the visitor never stares at an empty wait panel.
func (c *AccessCoordinator) startQueueMonitor() {
	c.timers.startRepeating(timerQueuePoll, c.cfg.QueuePollInterval, c.queueTick)
	go c.queueTick()
}

// queueTick replaces the queue snapshot wholesale and, unless the visitor is
// actively interacting, acts on turn-available and waiting-for-claim signals.
func (c *AccessCoordinator) queueTick() {
	snap, err := c.svc.QueueStatus(c.pollCtx())
	if err != nil {
		c.log.WithError(err).Warn("queue status poll failed")
		return
	}

	interacting := c.interaction.Interacting()

	c.mu.Lock()
	c.snapshot = snap
	phase := c.phase
	newlyTurn := false
	if !interacting {
		// Leave the latch untouched while interacting so a suppressed
		// turn-available signal still fires on the next quiet cycle.
		newlyTurn = snap.IsYourTurn && !c.turnAvailable
		c.turnAvailable = snap.IsYourTurn
	}
	c.mu.Unlock()

	c.events.QueueUpdated(snap)
	if interacting {
		return
	}

	switch {
	case newlyTurn && phase == domain.PhaseWaiting:
		c.enterYourTurn()
	case !snap.IsYourTurn && snap.WaitingForClaim && phase == domain.PhaseWaiting:
		c.events.Notice(domain.NoticeWaitingForClaim,
			fmt.Sprintf("Waiting for the current turn to be claimed (%s left)",
				formatClock(snap.ClaimRemainingSeconds)))
	}
}

// enterYourTurn starts the bounded claim window. The start time is recorded so
// the countdown stays accurate across missed ticks.
func (c *AccessCoordinator) enterYourTurn() {
	c.mu.Lock()
	c.claimStart = time.Now()
	c.mu.Unlock()

	c.setPhase(domain.PhaseYourTurn)
	c.timers.startRepeating(timerClaim, c.cfg.ClaimTick, c.claimTick)
	c.emitClaimClock(int(c.cfg.ClaimCeiling / time.Second))
}

func (c *AccessCoordinator) claimTick() {
	c.mu.Lock()
	if c.phase != domain.PhaseYourTurn {
		c.mu.Unlock()
		return
	}
	elapsed := time.Since(c.claimStart)
	c.mu.Unlock()

	remaining := c.cfg.ClaimCeiling - elapsed
	if remaining <= 0 {
		c.emitClaimClock(0)
		c.autoForfeit()
		return
	}
	c.emitClaimClock(int((remaining + time.Second - 1) / time.Second))
}

func (c *AccessCoordinator) emitClaimClock(seconds int) {
	urgency := domain.ClaimUrgencyCalm
	switch {
	case time.Duration(seconds)*time.Second <= c.cfg.ClaimCriticalAt:
		urgency = domain.ClaimUrgencyCritical
	case time.Duration(seconds)*time.Second <= c.cfg.ClaimWarnAt:
		urgency = domain.ClaimUrgencyWarning
	}
	c.events.ClaimClock(formatClock(seconds), seconds, urgency)
}

// autoForfeit fires when the claim window elapses unused: notify the service,
// surface the timeout, then re-sync with server truth after a short delay.
// Forfeiture alone never touches the Session or the upload lock.
func (c *AccessCoordinator) autoForfeit() {
	c.timers.cancel(timerClaim)

	c.mu.Lock()
	email := c.email
	c.turnAvailable = false
	c.mu.Unlock()

	if err := c.svc.ForfeitTurn(c.pollCtx(), email); err != nil {
		c.log.WithError(err).Warn("turn forfeit notification failed")
	}
	c.events.AccessError(domain.ErrorCodeTurnTimeout,
		"Your claim window expired and the turn was passed to the next visitor")
	c.timers.startOnce(timerResync, c.cfg.ForfeitResyncDelay, c.resyncAfterForfeit)
}

func (c *AccessCoordinator) resyncAfterForfeit() {
	rep, err := c.svc.Status(c.pollCtx())
	if err != nil {
		c.log.WithError(err).Warn("post-forfeit status check failed")
		c.setPhase(domain.PhaseEmail)
		return
	}
	if rep.HasActiveSession && !rep.Available {
		// Still queued behind the seat; queue monitoring keeps running.
		c.setPhase(domain.PhaseWaiting)
		return
	}
	c.timers.cancel(timerQueuePoll)
	c.mu.Lock()
	c.queueID = ""
	c.mu.Unlock()
	c.setPhase(domain.PhaseEmail)
}

// sessionTick drives the active session countdown. A late tick after teardown
// finds no session and becomes a no-op.
func (c *AccessCoordinator) sessionTick() {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	c.session.RemainingSeconds--
	rem := c.session.RemainingSeconds
	c.mu.Unlock()

	if rem < 0 {
		rem = 0
	}
	c.events.SessionClock(formatClock(rem), rem)
	if rem == 0 {
		c.sessionExpired()
	}
}

// waitTick counts down the current occupant's remaining time while this
// visitor waits without a session of their own.
func (c *AccessCoordinator) waitTick() {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return
	}
	if c.waitRemaining <= 0 {
		c.mu.Unlock()
		c.timers.cancel(timerSession)
		go func() {
			_ = c.RefreshStatus(c.pollCtx())
		}()
		return
	}
	c.waitRemaining--
	rem := c.waitRemaining
	c.mu.Unlock()

	c.events.SessionClock(formatClock(rem), rem)
}

// cleanupTick polls the lightweight cleanup-check endpoint, but only while a
// session exists locally or was very recently torn down.
func (c *AccessCoordinator) cleanupTick() {
	c.mu.Lock()
	holding := c.session != nil
	recent := !c.lastTeardown.IsZero() && time.Since(c.lastTeardown) < 2*c.cfg.CleanupPollInterval
	c.mu.Unlock()
	if !holding && !recent {
		return
	}

	rep, err := c.svc.CleanupCheck(c.pollCtx())
	if err != nil {
		c.log.WithError(err).Warn("cleanup check failed")
		return
	}
	if !rep.SessionExpired || !rep.DataCleanupRequired {
		return
	}
	if holding && c.interaction.Interacting() {
		// Don't interrupt a live, attended session; the next poll retries.
		return
	}
	c.handleDataCleanup(rep.CandidatesCleared)
}

// statusTick is the periodic session-validity check.
func (c *AccessCoordinator) statusTick() {
	sid := c.currentSessionID()
	rep, err := c.svc.Status(c.pollCtx())
	if err != nil {
		c.log.WithError(err).Warn("session status poll failed")
		return
	}
	c.applyStatusReport(rep, sid, true)
}

// applyStatusReport folds a status response into coordinator state. sidAtIssue
// is the session ID held when the request was issued: responses are handled in
// completion order, so a report that raced a fresh grant is discarded; claim
// success is authoritative over a concurrently-arriving stale expiry.
func (c *AccessCoordinator) applyStatusReport(rep domain.StatusReport, sidAtIssue string, gated bool) {
	c.mu.Lock()
	current := ""
	if c.session != nil {
		current = c.session.ID
	}
	if current != sidAtIssue {
		c.mu.Unlock()
		return
	}
	hasSession := c.session != nil
	queued := c.queueID != ""
	c.mu.Unlock()

	interacting := c.interaction.Interacting()

	if rep.SessionExpired && rep.DataCleanupRequired {
		if gated && interacting && hasSession {
			return
		}
		c.handleDataCleanup(rep.CandidatesCleared)
		return
	}

	if hasSession {
		if !rep.HasActiveSession || rep.Available {
			// Background observation; expiry waits for a quiet cycle.
			if gated && interacting {
				return
			}
			c.sessionExpired()
		}
		return
	}

	if gated && interacting {
		return
	}
	if rep.HasActiveSession && !rep.Available {
		c.enterOccupiedWait(rep)
		return
	}
	if !queued {
		c.setPhase(domain.PhaseEmail)
	}
}

// enterOccupiedWait shows the seat-busy wait surface with the occupant's
// remaining time counting down. Re-entered on every fresh occupied report:
// the wait ticker restarts with the occupant's current remaining time even
// when the phase is already Waiting, so the countdown never stalls at zero.
func (c *AccessCoordinator) enterOccupiedWait(rep domain.StatusReport) {
	c.mu.Lock()
	c.waitRemaining = rep.RemainingSeconds
	already := c.phase == domain.PhaseWaiting
	c.mu.Unlock()

	c.setPhase(domain.PhaseWaiting)
	c.timers.startRepeating(timerSession, c.cfg.SessionTick, c.waitTick)
	c.events.SessionClock(formatClock(rep.RemainingSeconds), rep.RemainingSeconds)
	if !already {
		c.startQueueMonitor()
	}
}
