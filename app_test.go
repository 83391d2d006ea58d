package seatgate

import (
	"errors"
	"testing"

	"seatgate/internal/domain"
)

func TestNoticeMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.NoticeKind]string{
		domain.NoticeSessionExpired:  "Your demo session has expired",
		domain.NoticeCleanupReset:    "Demo reset complete",
		domain.NoticeWaitingForClaim: "Waiting for the current turn to be claimed",
		domain.NoticeQueueJoined:     "You have been added to the queue",
		domain.NoticeTokenConsumed:   "Access link processed",
		domain.NoticeUploadFrozen:    "Uploads are locked for the rest of this session",
	}

	for kind, want := range cases {
		kind := kind
		want := want
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			if got := noticeMessage(kind, ""); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := noticeMessage(domain.NoticeQueueJoined, "Queued at position 3"); got != "Queued at position 3" {
		t.Fatalf("expected detail to win, got %q", got)
	}
	if got := noticeMessage("unknown", ""); got != "" {
		t.Fatalf("expected empty unknown notice message, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:      "Startup failed",
		domain.ErrorCodeTokenExpired: "This access link has expired. Please request a new one.",
		domain.ErrorCodeSlotOccupied: "The demo seat was taken while you waited. Please rejoin the queue.",
		domain.ErrorCodeTurnTimeout:  "Your claim window expired and the turn was passed on",
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := errorMessage(domain.ErrorCodeValidation, "Please enter a valid email"); got != "Please enter a valid email" {
		t.Fatalf("expected detail to win, got %q", got)
	}
	if got := errorMessage(domain.ErrorCodeValidation, ""); got != "Invalid input" {
		t.Fatalf("expected validation fallback, got %q", got)
	}
	if got := errorMessage(domain.ErrorCodeService, ""); got != "The session service is unavailable. Please try again." {
		t.Fatalf("expected service fallback, got %q", got)
	}
	if got := errorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := errorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStatusWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	status := app.GetStatus()
	if status.Phase != domain.PhaseEmail || status.HasSession {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestGetViewWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	view := app.GetView()
	if !view.EmailFormVisible || view.SessionBadge != "" || !view.ReadingEnabled {
		t.Fatalf("unexpected view: %+v", view)
	}
}
