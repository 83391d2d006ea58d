package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"seatgate/internal/domain"
	"seatgate/internal/logging"
	"seatgate/internal/ports"
)

// Config controls coordinator timing. Zero values fall back to the shipped
// production intervals.
type Config struct {
	SessionTick     time.Duration
	ClaimTick       time.Duration
	ClaimCeiling    time.Duration
	ClaimWarnAt     time.Duration
	ClaimCriticalAt time.Duration

	QueuePollInterval   time.Duration
	CleanupPollInterval time.Duration
	StatusPollInterval  time.Duration

	InteractionQuiet   time.Duration
	RefreshDelay       time.Duration
	ResetDelay         time.Duration
	ForfeitResyncDelay time.Duration
}

func (c Config) withDefaults() Config {
	def := func(d *time.Duration, fallback time.Duration) {
		if *d <= 0 {
			*d = fallback
		}
	}
	def(&c.SessionTick, time.Second)
	def(&c.ClaimTick, time.Second)
	def(&c.ClaimCeiling, 2*time.Minute)
	def(&c.ClaimWarnAt, time.Minute)
	def(&c.ClaimCriticalAt, 30*time.Second)
	def(&c.QueuePollInterval, 10*time.Second)
	def(&c.CleanupPollInterval, 15*time.Second)
	def(&c.StatusPollInterval, 30*time.Second)
	def(&c.InteractionQuiet, 2*time.Second)
	def(&c.RefreshDelay, 5*time.Second)
	def(&c.ResetDelay, 2*time.Second)
	def(&c.ForfeitResyncDelay, 3*time.Second)
	return c
}

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@.+$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

// AccessCoordinator owns the single client-side Session and the current access
// phase. User intents and background poll observations both funnel through it;
// it alone writes the shared state, so phase transitions never overlap.
type AccessCoordinator struct {
	svc    ports.SessionService
	events ports.EventSink
	cfg    Config
	log    *logrus.Entry

	interaction *interactionTracker
	timers      *timerSet

	mu            sync.Mutex
	ctx           context.Context
	phase         domain.Phase
	session       *domain.Session
	email         string
	queueID       string
	snapshot      domain.QueueSnapshot
	uploadLocked  bool
	turnAvailable bool
	claimStart    time.Time
	waitRemaining int
	lastTeardown  time.Time
}

func NewAccessCoordinator(svc ports.SessionService, events ports.EventSink, cfg Config) *AccessCoordinator {
	return &AccessCoordinator{
		svc:         svc,
		events:      events,
		cfg:         cfg.withDefaults(),
		log:         logging.Component("coordinator"),
		interaction: newInteractionTracker(cfg.InteractionQuiet),
		timers:      newTimerSet(),
		ctx:         context.Background(),
		phase:       domain.PhaseEmail,
	}
}

// Bootstrap resolves a pending access token if present, syncs with the seat
// status and starts the background pollers. The token-consumed notice is
// emitted regardless of the token outcome so the shell strips it from the
// visible address.
func (c *AccessCoordinator) Bootstrap(ctx context.Context, token string) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	granted := false
	if strings.TrimSpace(token) != "" {
		granted = c.startWithToken(ctx, strings.TrimSpace(token))
		c.events.Notice(domain.NoticeTokenConsumed, "")
	}
	if !granted {
		c.syncInitialStatus(ctx)
	}
	c.timers.startRepeating(timerCleanupPoll, c.cfg.CleanupPollInterval, c.cleanupTick)
	c.timers.startRepeating(timerStatusPoll, c.cfg.StatusPollInterval, c.statusTick)
}

func (c *AccessCoordinator) startWithToken(ctx context.Context, token string) bool {
	grant, err := c.svc.StartWithToken(ctx, token)
	switch {
	case err == nil:
		c.adoptGrant(grant)
		return true
	case errors.Is(err, domain.ErrTokenExpired):
		c.events.AccessError(domain.ErrorCodeTokenExpired, serviceMessage(err))
	case errors.Is(err, domain.ErrSlotOccupied):
		c.events.AccessError(domain.ErrorCodeSlotOccupied, serviceMessage(err))
	default:
		c.events.AccessError(domain.ErrorCodeNetwork, serviceMessage(err))
	}
	return false
}

func (c *AccessCoordinator) syncInitialStatus(ctx context.Context) {
	rep, err := c.svc.Status(ctx)
	if err != nil {
		c.log.WithError(err).Warn("initial status check failed")
		c.setPhase(domain.PhaseEmail)
		return
	}
	c.applyStatusReport(rep, c.currentSessionID(), false)
}

// RequestVerification validates the address locally, then asks the service to
// deliver a one-time code. Also serves the resend-code path.
func (c *AccessCoordinator) RequestVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		c.events.AccessError(domain.ErrorCodeValidation, "Please enter a valid email address")
		return errors.New("invalid email address")
	}

	c.mu.Lock()
	c.email = email
	c.mu.Unlock()

	if _, err := c.svc.RequestVerification(ctx, email); err != nil {
		c.events.AccessError(domain.ErrorCodeService, serviceMessage(err))
		return err
	}
	c.setPhase(domain.PhaseVerification)
	return nil
}

// SubmitCode exchanges the one-time code for a session grant, or lands the
// visitor in the wait queue when the seat is busy.
func (c *AccessCoordinator) SubmitCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	email := c.email
	c.mu.Unlock()
	if email == "" {
		c.events.AccessError(domain.ErrorCodeValidation, "Verify your email first")
		return errors.New("no email on file")
	}
	if !codePattern.MatchString(code) {
		c.events.AccessError(domain.ErrorCodeValidation, "Enter the 6-digit code from your email")
		return errors.New("malformed verification code")
	}

	res, err := c.svc.VerifyEmail(ctx, email, code)
	if err != nil {
		c.events.AccessError(domain.ErrorCodeVerificationFailed, serviceMessage(err))
		return err
	}
	switch {
	case res.Granted:
		c.adoptGrant(res.Grant)
	case res.QueueRedirect:
		c.mu.Lock()
		c.queueID = res.QueueID
		c.mu.Unlock()
		c.events.Notice(domain.NoticeQueueJoined, res.Message)
		c.setPhase(domain.PhaseWaiting)
		c.startQueueMonitor()
	default:
		c.events.AccessError(domain.ErrorCodeVerificationFailed, res.Message)
		return &domain.ServiceError{Message: res.Message}
	}
	return nil
}

// JoinQueue enrolls the verified email in the wait queue.
func (c *AccessCoordinator) JoinQueue(ctx context.Context) error {
	c.mu.Lock()
	email := c.email
	c.mu.Unlock()
	if email == "" {
		c.events.AccessError(domain.ErrorCodeValidation, "Verify your email first")
		return errors.New("no email on file")
	}

	res, err := c.svc.JoinQueue(ctx, email)
	if err != nil {
		c.events.AccessError(domain.ErrorCodeService, serviceMessage(err))
		return err
	}

	c.mu.Lock()
	c.queueID = res.QueueID
	c.mu.Unlock()
	c.events.Notice(domain.NoticeQueueJoined, res.Message)
	c.setPhase(domain.PhaseWaiting)
	c.startQueueMonitor()
	return nil
}

// ClaimTurn converts a front-of-queue reservation into an active Session.
func (c *AccessCoordinator) ClaimTurn(ctx context.Context) error {
	c.mu.Lock()
	email := c.email
	phase := c.phase
	c.mu.Unlock()
	if phase != domain.PhaseYourTurn {
		return errors.New("no turn to claim")
	}

	grant, err := c.svc.ClaimTurn(ctx, email)
	switch {
	case err == nil:
		c.adoptGrant(grant)
		return nil
	case errors.Is(err, domain.ErrSlotOccupied):
		// Another visitor raced us into the seat; rejoin the queue.
		c.timers.cancel(timerClaim)
		c.mu.Lock()
		c.turnAvailable = false
		c.mu.Unlock()
		c.events.AccessError(domain.ErrorCodeSlotOccupied, serviceMessage(err))
		c.setPhase(domain.PhaseWaiting)
		c.startQueueMonitor()
		return err
	default:
		// Claim window stays open so the visitor can retry.
		c.events.AccessError(domain.ErrorCodeNetwork, serviceMessage(err))
		return err
	}
}

// SkipTurn voluntarily forfeits a claimable turn. Confirmation happens in the
// UI before this intent fires.
func (c *AccessCoordinator) SkipTurn(ctx context.Context) error {
	c.mu.Lock()
	email := c.email
	phase := c.phase
	c.mu.Unlock()
	if phase != domain.PhaseYourTurn {
		return errors.New("no turn to skip")
	}

	c.timers.cancel(timerClaim)
	c.mu.Lock()
	c.turnAvailable = false
	c.mu.Unlock()

	if err := c.svc.SkipTurn(ctx, email); err != nil {
		c.log.WithError(err).Warn("skip notification failed")
	}
	c.setPhase(domain.PhaseWaiting)
	c.startQueueMonitor()
	return nil
}

// EndSession releases the seat. The service call is best-effort; local
// teardown proceeds regardless of the network outcome.
func (c *AccessCoordinator) EndSession(ctx context.Context) error {
	c.mu.Lock()
	sid := ""
	if c.session != nil {
		sid = c.session.ID
	}
	c.mu.Unlock()
	if sid == "" {
		return domain.ErrNoSession
	}

	if err := c.svc.End(ctx, sid); err != nil {
		c.log.WithError(err).Warn("session end call failed; proceeding with local teardown")
	}
	c.teardown()
	c.events.RefreshRequested()
	return nil
}

// RefreshStatus is the manual status check. Unlike the background poll it is
// user-driven, so it is not gated by the interaction tracker.
func (c *AccessCoordinator) RefreshStatus(ctx context.Context) error {
	sid := c.currentSessionID()
	rep, err := c.svc.Status(ctx)
	if err != nil {
		c.events.AccessError(domain.ErrorCodeNetwork, serviceMessage(err))
		return err
	}
	c.applyStatusReport(rep, sid, false)
	return nil
}

// ShowInfo opens the architecture/help surface; CloseInfo returns to email
// entry.
func (c *AccessCoordinator) ShowInfo()  { c.setPhase(domain.PhaseInfo) }
func (c *AccessCoordinator) CloseInfo() { c.setPhase(domain.PhaseEmail) }

// TrackInteraction records input/focus/click activity on the access surface.
func (c *AccessCoordinator) TrackInteraction() { c.interaction.Track() }

func (c *AccessCoordinator) Interaction() domain.InteractionState {
	return c.interaction.State()
}

// Status summarizes coordinator state for the UI.
func (c *AccessCoordinator) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := domain.Status{
		Phase:        c.phase,
		UploadLocked: c.uploadLocked,
		QueueID:      c.queueID,
	}
	if c.session != nil {
		st.HasSession = true
		st.SessionID = c.session.ID
		st.RemainingSeconds = c.session.RemainingSeconds
	}
	return st
}

// View renders the current state into a pure view description.
func (c *AccessCoordinator) View() domain.View {
	c.mu.Lock()
	phase := c.phase
	snap := c.snapshot
	locked := c.uploadLocked
	var sess *domain.Session
	if c.session != nil {
		copied := *c.session
		sess = &copied
	}
	c.mu.Unlock()
	return Render(phase, snap, sess, locked)
}

// setPhase hides every other surface, shows the target's, and records it as
// current. Entering Email clears any previously entered email/code input.
// Idempotent: repeating the same target emits nothing beyond that clear.
func (c *AccessCoordinator) setPhase(target domain.Phase) {
	c.mu.Lock()
	if target == domain.PhaseEmail {
		c.email = ""
	}
	if c.phase == target {
		c.mu.Unlock()
		return
	}
	c.phase = target
	c.mu.Unlock()
	c.events.PhaseChanged(target)
}

// adoptGrant installs the one client-side Session and moves to Active. A
// fresh grant supersedes any queued/claim state and resets the upload lock.
func (c *AccessCoordinator) adoptGrant(grant domain.Grant) {
	c.mu.Lock()
	email := c.email
	if grant.Email != "" {
		email = grant.Email
		c.email = grant.Email
	}
	c.session = &domain.Session{
		ID:               grant.SessionID,
		OwnerEmail:       email,
		DurationSeconds:  grant.DurationSeconds,
		RemainingSeconds: grant.DurationSeconds,
	}
	c.uploadLocked = false
	c.turnAvailable = false
	c.queueID = ""
	c.waitRemaining = 0
	changed := c.phase != domain.PhaseActive
	c.phase = domain.PhaseActive
	remaining := grant.DurationSeconds
	c.mu.Unlock()

	c.timers.cancel(timerClaim)
	c.timers.cancel(timerQueuePoll)
	c.timers.cancel(timerResync)
	c.timers.startRepeating(timerSession, c.cfg.SessionTick, c.sessionTick)

	if changed {
		c.events.PhaseChanged(domain.PhaseActive)
	}
	c.events.UploadLockChanged(false)
	c.events.SessionClock(formatClock(remaining), remaining)
}

// teardown is the single idempotent cleanup path shared by explicit end,
// expiry, forced cleanup and auto-forfeit resync. It reports whether any state
// was actually cleared so callers avoid duplicate notices.
func (c *AccessCoordinator) teardown() bool {
	c.mu.Lock()
	changed := c.session != nil || c.queueID != "" || c.uploadLocked || c.phase != domain.PhaseEmail
	hadLock := c.uploadLocked
	phaseChanged := c.phase != domain.PhaseEmail
	c.session = nil
	c.email = ""
	c.queueID = ""
	c.snapshot = domain.QueueSnapshot{}
	c.uploadLocked = false
	c.turnAvailable = false
	c.waitRemaining = 0
	c.phase = domain.PhaseEmail
	c.lastTeardown = time.Now()
	c.mu.Unlock()

	c.timers.cancelAll()
	if !changed {
		return false
	}
	if hadLock {
		c.events.UploadLockChanged(false)
	}
	if phaseChanged {
		c.events.PhaseChanged(domain.PhaseEmail)
	}
	c.events.QueueUpdated(domain.QueueSnapshot{})
	c.events.SessionCleared()
	return true
}

func (c *AccessCoordinator) sessionExpired() {
	if !c.teardown() {
		return
	}
	c.events.Notice(domain.NoticeSessionExpired, "")
	c.timers.startOnce(timerRefreshDelay, c.cfg.RefreshDelay, c.events.RefreshRequested)
}

// handleDataCleanup mirrors a server-directed purge locally: teardown, a
// transient notice naming the purge size, then a delayed full demo reset.
func (c *AccessCoordinator) handleDataCleanup(candidatesCleared int) {
	if !c.teardown() {
		return
	}
	c.events.Notice(domain.NoticeCleanupReset,
		fmt.Sprintf("Previous session ended. %d candidates cleared.", candidatesCleared))
	c.timers.startOnce(timerResetDelay, c.cfg.ResetDelay, c.events.DemoReset)
}

func (c *AccessCoordinator) currentSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

func (c *AccessCoordinator) pollCtx() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// serviceMessage prefers the service's own wording when present.
func serviceMessage(err error) string {
	var se *domain.ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
