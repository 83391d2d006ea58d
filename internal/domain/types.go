package domain

import (
	"errors"
	"time"
)

// Phase is the single authoritative UI phase of the access surface.
type Phase string

const (
	PhaseEmail        Phase = "email"
	PhaseVerification Phase = "verification"
	PhaseWaiting      Phase = "waiting"
	PhaseYourTurn     Phase = "your_turn"
	PhaseActive       Phase = "active"
	PhaseError        Phase = "error"
	PhaseInfo         Phase = "info"
)

// Session is a granted, time-boxed exclusive right to the shared demo seat.
// At most one Session value is held client-side at any time.
type Session struct {
	ID               string `json:"sessionId"`
	OwnerEmail       string `json:"ownerEmail"`
	DurationSeconds  int    `json:"durationSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// ShortID abbreviates the opaque session identifier for display.
func (s Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8] + "..."
}

// QueueEntry is one visible wait-list row. The identity is already masked by
// the service; the client treats it as opaque.
type QueueEntry struct {
	Position       int    `json:"position"`
	MaskedIdentity string `json:"maskedIdentity"`
	WaitTime       string `json:"waitTime"`
}

// QueueSnapshot is the service's view of the wait queue. It is replaced
// wholesale on every successful poll, never partially merged.
type QueueSnapshot struct {
	Length                int          `json:"queueLength"`
	EstimatedWaitMinutes  int          `json:"estimatedWaitMinutes"`
	Waiting               []QueueEntry `json:"waitingUsers"`
	IsYourTurn            bool         `json:"isYourTurn"`
	WaitingForClaim       bool         `json:"waitingForClaim"`
	ClaimHolder           string       `json:"claimHolder,omitempty"`
	ClaimRemainingSeconds int          `json:"claimRemainingSeconds"`
}

// NoticeKind identifies transient, non-error notices surfaced to the UI.
type NoticeKind string

const (
	NoticeSessionExpired  NoticeKind = "session_expired"
	NoticeCleanupReset    NoticeKind = "cleanup_reset"
	NoticeWaitingForClaim NoticeKind = "waiting_for_claim"
	NoticeQueueJoined     NoticeKind = "queue_joined"
	NoticeTokenConsumed   NoticeKind = "token_consumed"
	NoticeUploadFrozen    NoticeKind = "upload_frozen"
)

// ErrorCode classifies user-visible failures.
type ErrorCode string

const (
	ErrorCodeStartup            ErrorCode = "startup"
	ErrorCodeValidation         ErrorCode = "validation"
	ErrorCodeVerificationFailed ErrorCode = "verification_failed"
	ErrorCodeTokenExpired       ErrorCode = "token_expired"
	ErrorCodeSlotOccupied       ErrorCode = "slot_occupied"
	ErrorCodeTurnTimeout        ErrorCode = "turn_timeout"
	ErrorCodeService            ErrorCode = "service"
	ErrorCodeNetwork            ErrorCode = "network"
)

// ClaimUrgency is the display tier of the turn-claim countdown.
type ClaimUrgency string

const (
	ClaimUrgencyCalm     ClaimUrgency = "calm"
	ClaimUrgencyWarning  ClaimUrgency = "warning"
	ClaimUrgencyCritical ClaimUrgency = "critical"
)

// Sentinel errors the service client maps HTTP outcomes onto.
var (
	ErrTokenExpired = errors.New("access token expired")
	ErrSlotOccupied = errors.New("demo seat already occupied")
	ErrNoSession    = errors.New("no active session")
)

// ServiceError carries the service's own message text so the UI can show the
// server's wording when present.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "session service request failed"
	}
	return e.Message
}

// Ack is a bare acknowledgement response.
type Ack struct {
	Message string
}

// Grant is a successful seat grant from verify-email, claim-turn or
// start-with-token. The service reports duration in minutes; the client
// normalizes it to seconds before building a Grant.
type Grant struct {
	SessionID       string
	Email           string
	DurationSeconds int
	Message         string
}

// VerifyResult is the outcome of verify-email: either a Grant, or a queue
// redirect (seat busy, caller was silently queued; not a failure).
type VerifyResult struct {
	Granted       bool
	Grant         Grant
	QueueRedirect bool
	QueueID       string
	Position      int
	Message       string
}

// JoinResult is the outcome of join-queue.
type JoinResult struct {
	QueueID  string
	Position int
	Message  string
}

// StatusReport is the service-wide seat status.
type StatusReport struct {
	HasActiveSession    bool
	Available           bool
	SessionExpired      bool
	DataCleanupRequired bool
	UserEmail           string
	RemainingSeconds    int
	CandidatesCleared   int
}

// CleanupReport is the lightweight cleanup-check response.
type CleanupReport struct {
	SessionExpired      bool
	DataCleanupRequired bool
	CandidatesCleared   int
}

// Status summarizes coordinator state for the UI.
type Status struct {
	Phase            Phase  `json:"phase"`
	HasSession       bool   `json:"hasSession"`
	SessionID        string `json:"sessionId,omitempty"`
	RemainingSeconds int    `json:"remainingSeconds"`
	UploadLocked     bool   `json:"uploadLocked"`
	QueueID          string `json:"queueId,omitempty"`
}

// InteractionState reports whether the visitor is currently engaged with the
// access surface.
type InteractionState struct {
	Interacting       bool      `json:"interacting"`
	LastInteractionAt time.Time `json:"lastInteractionAt"`
}
