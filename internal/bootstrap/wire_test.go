package bootstrap

import (
	"testing"
	"time"

	"seatgate/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	t.Setenv("SEATGATE_API_BASE", "http://localhost:18080")
	t.Setenv("SEATGATE_QUEUE_POLL_MS", "5000")

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Coordinator == nil {
		t.Fatalf("expected coordinator")
	}
	if services.Config.Service.BaseURL != "http://localhost:18080" {
		t.Fatalf("unexpected base url: %q", services.Config.Service.BaseURL)
	}
	if services.Config.Access.QueuePollInterval != 5*time.Second {
		t.Fatalf("unexpected queue poll interval: %s", services.Config.Access.QueuePollInterval)
	}
}

type noopEventSink struct{}

func (noopEventSink) PhaseChanged(_ domain.Phase)                        {}
func (noopEventSink) SessionClock(_ string, _ int)                       {}
func (noopEventSink) ClaimClock(_ string, _ int, _ domain.ClaimUrgency)  {}
func (noopEventSink) QueueUpdated(_ domain.QueueSnapshot)                {}
func (noopEventSink) Notice(_ domain.NoticeKind, _ string)               {}
func (noopEventSink) AccessError(_ domain.ErrorCode, _ string)           {}
func (noopEventSink) UploadLockChanged(_ bool)                           {}
func (noopEventSink) SessionCleared()                                    {}
func (noopEventSink) DemoReset()                                         {}
func (noopEventSink) RefreshRequested()                                  {}
