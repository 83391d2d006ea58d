package usecase

import (
	"fmt"

	"seatgate/internal/domain"
)

const visibleQueueRows = 3

// Render maps coordinator state to a pure view description. It mutates
// nothing; the frontend applies the result directly.
func Render(phase domain.Phase, snap domain.QueueSnapshot, session *domain.Session, uploadLocked bool) domain.View {
	view := domain.View{
		Phase:          phase,
		ReadingEnabled: true,
		UploadEnabled:  session != nil && !uploadLocked,
		Queue:          queueView(snap),
	}

	switch phase {
	case domain.PhaseEmail:
		view.EmailFormVisible = true
	case domain.PhaseVerification:
		view.CodeFormVisible = true
	case domain.PhaseWaiting:
		view.QueuePanelVisible = true
	case domain.PhaseYourTurn:
		view.ClaimPanelVisible = true
	case domain.PhaseActive:
		view.ActivePanelVisible = true
	case domain.PhaseError:
		view.ErrorPanelVisible = true
	case domain.PhaseInfo:
		view.InfoPanelVisible = true
	}

	if session != nil {
		view.SessionBadge = session.ShortID()
		view.SessionClock = formatClock(session.RemainingSeconds)
	}
	return view
}

func queueView(snap domain.QueueSnapshot) domain.QueueView {
	qv := domain.QueueView{Length: snap.Length, EstimatedWait: "Ready soon"}
	if snap.EstimatedWaitMinutes > 0 {
		qv.EstimatedWait = fmt.Sprintf("%d minutes", snap.EstimatedWaitMinutes)
	}

	entries := snap.Waiting
	if len(entries) > visibleQueueRows {
		entries = entries[:visibleQueueRows]
	}
	qv.Entries = entries
	if snap.Length > visibleQueueRows {
		qv.Overflow = fmt.Sprintf("...and %d more users", snap.Length-visibleQueueRows)
	}
	return qv
}

// formatClock renders a countdown as minutes:seconds.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
