package application

import "github.com/sngm3741/qr-review/api/internal/domain"

// Session is the per-owner editing state. Drafts live here until Save and are never shared.
type Session struct {
	Owner     Owner
	Saved     domain.Profile
	Exists    bool
	PublicURL string
	QRCode    []byte
	QRErr     error

	draft domain.ProfilePatch
}

// Draft returns the saved profile with pending edits applied.
func (s *Session) Draft() domain.Profile {
	return s.Saved.Apply(s.draft)
}

// Edit layers patch over the pending edits.
func (s *Session) Edit(patch domain.ProfilePatch) {
	s.draft = s.draft.Merge(patch)
}

// Dirty reports whether there are unsaved edits.
func (s *Session) Dirty() bool {
	return !s.draft.IsEmpty()
}

// Cancel discards unsaved edits.
func (s *Session) Cancel() {
	s.draft = domain.ProfilePatch{}
}

// DisplayName resolves the name shown in the dashboard header.
func (s *Session) DisplayName() string {
	return s.Draft().DisplayName(s.Owner.DisplayName)
}

// QRAvailable is false when rendering failed; the dashboard shows a fallback instead of an image.
func (s *Session) QRAvailable() bool {
	return s.QRErr == nil && len(s.QRCode) > 0
}
