package ports

import (
	"context"

	"seatgate/internal/domain"
)

// SessionService is the remote seat/queue service consumed by the coordinator.
// Implementations map transport failures to *domain.ServiceError and the
// documented HTTP outcomes to domain sentinel errors (ErrTokenExpired,
// ErrSlotOccupied).
type SessionService interface {
	RequestVerification(ctx context.Context, email string) (domain.Ack, error)
	VerifyEmail(ctx context.Context, email string, code string) (domain.VerifyResult, error)
	Status(ctx context.Context) (domain.StatusReport, error)
	CleanupCheck(ctx context.Context) (domain.CleanupReport, error)
	JoinQueue(ctx context.Context, email string) (domain.JoinResult, error)
	QueueStatus(ctx context.Context) (domain.QueueSnapshot, error)
	ClaimTurn(ctx context.Context, email string) (domain.Grant, error)
	SkipTurn(ctx context.Context, email string) error
	ForfeitTurn(ctx context.Context, email string) error
	StartWithToken(ctx context.Context, token string) (domain.Grant, error)
	End(ctx context.Context, sessionID string) error
}

// EventSink emits coordinator state/events to the UI.
type EventSink interface {
	PhaseChanged(phase domain.Phase)
	SessionClock(display string, remainingSeconds int)
	ClaimClock(display string, remainingSeconds int, urgency domain.ClaimUrgency)
	QueueUpdated(snapshot domain.QueueSnapshot)
	Notice(kind domain.NoticeKind, message string)
	AccessError(code domain.ErrorCode, message string)
	UploadLockChanged(locked bool)
	// SessionCleared hides the session clock and closes the access surface
	// after a teardown.
	SessionCleared()
	// DemoReset clears upload-dependent UI state (uploaded-in-session marker,
	// step completion indicators) after a server-directed cleanup.
	DemoReset()
	// RefreshRequested asks the shell to reload the whole surface.
	RefreshRequested()
}
