package seatgate

import (
	"context"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"seatgate/internal/bootstrap"
	"seatgate/internal/config"
	"seatgate/internal/domain"
	"seatgate/internal/usecase"
)

const (
	eventPhase      = "seatgate:phase"
	eventClock      = "seatgate:clock"
	eventClaimClock = "seatgate:claim"
	eventQueue      = "seatgate:queue"
	eventNotice     = "seatgate:notice"
	eventError      = "seatgate:error"
	eventUploadLock = "seatgate:uploadlock"
	eventCleared    = "seatgate:cleared"
	eventReset      = "seatgate:reset"
	eventRefresh    = "seatgate:refresh"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	coordinator *usecase.AccessCoordinator
	cfg         config.Config
	launchToken string
	bootErr     error
}

func NewApp(launchToken string) *App {
	return &App{launchToken: launchToken}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if a.launchToken == "" {
		a.launchToken = os.Getenv("SEATGATE_ACCESS_TOKEN")
	}

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.AccessError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.coordinator = services.Coordinator
	go a.coordinator.Bootstrap(ctx, a.launchToken)
}

// SubmitEmail requests a one-time verification code for the given address.
func (a *App) SubmitEmail(email string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.RequestVerification(a.ctx, email)
}

// SubmitCode exchanges the one-time code for seat access.
func (a *App) SubmitCode(code string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.SubmitCode(a.ctx, code)
}

// JoinQueue enrolls the verified email in the wait queue.
func (a *App) JoinQueue() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.JoinQueue(a.ctx)
}

// ClaimTurn converts a front-of-queue reservation into an active session.
func (a *App) ClaimTurn() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.ClaimTurn(a.ctx)
}

// SkipTurn forfeits a claimable turn; the frontend confirms first.
func (a *App) SkipTurn() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.SkipTurn(a.ctx)
}

// EndSession releases the seat and tears down local state.
func (a *App) EndSession() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.coordinator.EndSession(a.ctx)
}

// RefreshStatus is the manual "refresh status" button.
func (a *App) RefreshStatus() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.TrackInteraction()
	return a.coordinator.RefreshStatus(a.ctx)
}

// NoteUploadSuccess reports that at least one file of an upload batch
// succeeded, engaging the per-session upload freeze.
func (a *App) NoteUploadSuccess() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.coordinator.NoteUploadSuccess()
}

// ShowInfo opens the architecture/help surface.
func (a *App) ShowInfo() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.ShowInfo()
	return nil
}

// CloseInfo closes the architecture/help surface.
func (a *App) CloseInfo() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.CloseInfo()
	return nil
}

// TrackInteraction records focus/input/click activity on the access surface.
func (a *App) TrackInteraction() {
	if a.coordinator != nil {
		a.coordinator.TrackInteraction()
	}
}

// GetStatus returns the current coordinator status.
func (a *App) GetStatus() domain.Status {
	if a.coordinator == nil {
		return domain.Status{Phase: domain.PhaseEmail}
	}
	return a.coordinator.Status()
}

// GetView returns the pure view description for the current state.
func (a *App) GetView() domain.View {
	if a.coordinator == nil {
		return usecase.Render(domain.PhaseEmail, domain.QueueSnapshot{}, nil, false)
	}
	return a.coordinator.View()
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.coordinator == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// PhaseChanged emits phase transitions to the frontend.
func (a *App) PhaseChanged(phase domain.Phase) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPhase, map[string]string{"phase": string(phase)})
}

// SessionClock emits the session countdown display.
func (a *App) SessionClock(display string, remainingSeconds int) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventClock, map[string]any{
		"display":   display,
		"remaining": remainingSeconds,
	})
}

// ClaimClock emits the turn-claim countdown with its urgency tier.
func (a *App) ClaimClock(display string, remainingSeconds int, urgency domain.ClaimUrgency) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventClaimClock, map[string]any{
		"display":   display,
		"remaining": remainingSeconds,
		"urgency":   string(urgency),
	})
}

// QueueUpdated emits the latest queue snapshot.
func (a *App) QueueUpdated(snapshot domain.QueueSnapshot) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventQueue, snapshot)
}

// Notice emits transient non-error notices.
func (a *App) Notice(kind domain.NoticeKind, message string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventNotice, map[string]string{
		"kind":    string(kind),
		"message": noticeMessage(kind, message),
	})
}

// AccessError emits user-visible failures.
func (a *App) AccessError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

// UploadLockChanged emits the upload-freeze state.
func (a *App) UploadLockChanged(locked bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventUploadLock, map[string]bool{"locked": locked})
}

// SessionCleared tells the frontend to hide the session clock and close the
// access surface.
func (a *App) SessionCleared() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCleared)
}

// DemoReset tells the frontend to clear upload-dependent UI state.
func (a *App) DemoReset() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventReset)
}

// RefreshRequested asks the frontend to reload the surface.
func (a *App) RefreshRequested() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventRefresh)
}

func noticeMessage(kind domain.NoticeKind, detail string) string {
	if detail != "" {
		return detail
	}
	switch kind {
	case domain.NoticeSessionExpired:
		return "Your demo session has expired"
	case domain.NoticeCleanupReset:
		return "Demo reset complete"
	case domain.NoticeWaitingForClaim:
		return "Waiting for the current turn to be claimed"
	case domain.NoticeQueueJoined:
		return "You have been added to the queue"
	case domain.NoticeTokenConsumed:
		return "Access link processed"
	case domain.NoticeUploadFrozen:
		return "Uploads are locked for the rest of this session"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeValidation:
		if detail != "" {
			return detail
		}
		return "Invalid input"
	case domain.ErrorCodeVerificationFailed:
		if detail != "" {
			return detail
		}
		return "Verification failed"
	case domain.ErrorCodeTokenExpired:
		return "This access link has expired. Please request a new one."
	case domain.ErrorCodeSlotOccupied:
		return "The demo seat was taken while you waited. Please rejoin the queue."
	case domain.ErrorCodeTurnTimeout:
		return "Your claim window expired and the turn was passed on"
	case domain.ErrorCodeService, domain.ErrorCodeNetwork:
		if detail != "" {
			return detail
		}
		return "The session service is unavailable. Please try again."
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
