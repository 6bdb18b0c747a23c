package application

import (
	"context"

	"github.com/sngm3741/qr-review/api/internal/domain"
)

// ProfileRepository is the owner-side view of the profile store.
// ProfileRepository はダッシュボードからプロフィールを読み書きするためのポート。
type ProfileRepository interface {
	Load(ctx context.Context, ownerID string) (*domain.Profile, error)
	Save(ctx context.Context, ownerID string, patch domain.ProfilePatch) (*domain.Profile, error)
}

// CounterReader reads aggregate counters without creating them.
type CounterReader interface {
	Get(ctx context.Context, ownerID string) (domain.VisitCounters, error)
}

// QRCodec builds and renders the canonical public URL.
type QRCodec interface {
	BuildPublicURL(ownerID string) (string, error)
	Encode(publicURL string) ([]byte, error)
}

// Owner is the authenticated principal editing the dashboard.
type Owner struct {
	ID          string
	DisplayName string
}

// QRExport is the downloadable artifact.
type QRExport struct {
	Filename string
	PNG      []byte
}

// Service describes the owner dashboard use-cases.
// Service はオーナー用ダッシュボードのユースケースを表す。
type Service interface {
	// Start loads the saved profile (defaults when none exists) and renders the QR code.
	Start(ctx context.Context, owner Owner) (*Session, error)
	// Save persists the session draft and replaces its saved state with the merge result.
	Save(ctx context.Context, session *Session) error
	// Regenerate re-renders the QR code of the session.
	Regenerate(session *Session)
	Counters(ctx context.Context, session *Session) (domain.VisitCounters, error)
	ExportQRCode(session *Session) (QRExport, error)
}
