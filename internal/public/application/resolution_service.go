package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"github.com/sngm3741/qr-review/api/internal/media"
	"github.com/sngm3741/qr-review/api/internal/prompt"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

// URLBuilder derives the canonical public URL.
type URLBuilder interface {
	BuildPublicURL(ownerID string) (string, error)
}

// Config defines dependencies of the resolution service.
type Config struct {
	Profiles      ProfileReader
	Counters      VisitRecorder
	URLs          URLBuilder
	Sampler       redirect.Sampler
	Pool          prompt.Pool
	PromptCount   int
	RedirectDelay time.Duration
	Media         media.Resolver
	Logger        *log.Logger
}

type resolutionService struct {
	cfg Config
}

// NewResolutionService creates the visitor-facing service.
func NewResolutionService(cfg Config) ResolutionService {
	if cfg.PromptCount <= 0 {
		cfg.PromptCount = redirect.DefaultPromptCount
	}
	if len(cfg.Pool) == 0 {
		cfg.Pool = prompt.DefaultPool()
	}
	return &resolutionService{cfg: cfg}
}

func (s *resolutionService) Resolve(ctx context.Context, ownerID string) (*PublicProfile, error) {
	profile, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.cfg.Counters.RecordVisit(ctx, ownerID); err != nil {
		s.logf("visit counter update failed owner=%q: %v", ownerID, err)
	}

	publicURL, _ := s.cfg.URLs.BuildPublicURL(ownerID)
	return &PublicProfile{
		OwnerID:         ownerID,
		DisplayName:     profile.DisplayName(""),
		LogoURL:         s.cfg.Media.Resolve(profile.LogoRef),
		Category:        profile.Category,
		Description:     profile.Description,
		PublicURL:       publicURL,
		ReviewAvailable: profile.ReviewAvailable(),
	}, nil
}

func (s *resolutionService) StartReview(ctx context.Context, ownerID string, opts ReviewOptions) (*redirect.Flow, []prompt.Prompt, error) {
	profile, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	count := s.cfg.PromptCount
	if opts.PromptCount > 0 {
		count = opts.PromptCount
	}
	flow := redirect.NewFlow(redirect.Config{
		Destination: profile.ExternalReviewURL,
		Pool:        s.cfg.Pool,
		PromptCount: count,
		Sampler:     s.cfg.Sampler,
		Clipboard:   opts.Clipboard,
		Navigator:   opts.Navigator,
		Scheduler:   opts.Scheduler,
		Delay:       s.cfg.RedirectDelay,
		Logger:      s.cfg.Logger,
	})
	offered, err := flow.Open()
	if err != nil {
		return flow, nil, err
	}
	return flow, offered, nil
}

func (s *resolutionService) Prompt(id int) (prompt.Prompt, bool) {
	return s.cfg.Pool.Lookup(id)
}

// load rejects malformed identifiers before touching the store.
func (s *resolutionService) load(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	profile, err := s.cfg.Profiles.Load(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logf("profile load failed owner=%q: %v", ownerID, err)
		}
		return nil, err
	}
	return profile, nil
}

func (s *resolutionService) logf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}
