package usecase

import "seatgate/internal/domain"

// NoteUploadSuccess engages the at-most-one-upload-batch-per-session freeze.
// It can only engage while a Session exists; teardown lifts it exactly once.
func (c *AccessCoordinator) NoteUploadSuccess() error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return domain.ErrNoSession
	}
	if c.uploadLocked {
		c.mu.Unlock()
		return nil
	}
	c.uploadLocked = true
	c.mu.Unlock()

	c.events.UploadLockChanged(true)
	c.events.Notice(domain.NoticeUploadFrozen, "Uploads are locked for the rest of this session")
	return nil
}

// UploadLocked reports whether the current session has consumed its upload.
func (c *AccessCoordinator) UploadLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadLocked
}
