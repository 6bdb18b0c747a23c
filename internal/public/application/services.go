package application

import (
	"context"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"github.com/sngm3741/qr-review/api/internal/prompt"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

// ProfileReader is the read side of the profile store used by anonymous visitors.
// ProfileReader は Public コンテキストでプロフィールを読み取るためのポート。
type ProfileReader interface {
	Load(ctx context.Context, ownerID string) (*domain.Profile, error)
}

// VisitRecorder atomically counts a resolution of the public URL.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, ownerID string) error
}

// PublicProfile is what a visitor sees after scanning the code.
type PublicProfile struct {
	OwnerID         string
	DisplayName     string
	LogoURL         string
	Category        domain.Category
	Description     string
	PublicURL       string
	ReviewAvailable bool
}

// ReviewOptions carries the visitor-side effects of the review flow.
type ReviewOptions struct {
	Clipboard redirect.Clipboard
	Navigator redirect.Navigator
	Scheduler redirect.Scheduler
	// PromptCount overrides the configured number of prompts; zero keeps it.
	PromptCount int
}

// ResolutionService describes the anonymous visitor use-cases.
// ResolutionService は公開 URL の解決とレビュー導線を提供するユースケース。
type ResolutionService interface {
	// Resolve loads the profile and counts the visit. Unknown owners are never counted.
	Resolve(ctx context.Context, ownerID string) (*PublicProfile, error)
	// StartReview opens a review flow for the owner without counting a visit.
	StartReview(ctx context.Context, ownerID string, opts ReviewOptions) (*redirect.Flow, []prompt.Prompt, error)
	// Prompt looks up a prompt of the shared pool.
	Prompt(id int) (prompt.Prompt, bool)
}
