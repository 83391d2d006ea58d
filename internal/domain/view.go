package domain

// View is a pure description of what the access UI should show for a given
// coordinator state. It carries no behavior; the frontend renders it directly.
type View struct {
	Phase Phase `json:"phase"`

	EmailFormVisible   bool `json:"emailFormVisible"`
	CodeFormVisible    bool `json:"codeFormVisible"`
	QueuePanelVisible  bool `json:"queuePanelVisible"`
	ClaimPanelVisible  bool `json:"claimPanelVisible"`
	ActivePanelVisible bool `json:"activePanelVisible"`
	ErrorPanelVisible  bool `json:"errorPanelVisible"`
	InfoPanelVisible   bool `json:"infoPanelVisible"`

	// Reading material is never gated by phase.
	ReadingEnabled bool `json:"readingEnabled"`

	UploadEnabled bool   `json:"uploadEnabled"`
	SessionBadge  string `json:"sessionBadge,omitempty"`
	SessionClock  string `json:"sessionClock,omitempty"`

	Queue QueueView `json:"queue"`
}

// QueueView is the wait-list portion of a View: at most three visible rows
// plus an overflow line.
type QueueView struct {
	Length        int          `json:"length"`
	EstimatedWait string       `json:"estimatedWait"`
	Entries       []QueueEntry `json:"entries"`
	Overflow      string       `json:"overflow,omitempty"`
}
