package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
)

// Config defines dependencies of the dashboard service.
type Config struct {
	Profiles ProfileRepository
	Counters CounterReader
	Codec    QRCodec
	Logger   *log.Logger
}

type dashboardService struct {
	cfg Config
}

// NewService creates the owner dashboard service.
func NewService(cfg Config) Service {
	return &dashboardService{cfg: cfg}
}

func (s *dashboardService) Start(ctx context.Context, owner Owner) (*Session, error) {
	if err := domain.ValidateOwnerID(owner.ID); err != nil {
		return nil, err
	}

	session := &Session{Owner: owner, Saved: domain.DefaultProfile(owner.ID)}
	profile, err := s.cfg.Profiles.Load(ctx, owner.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		s.logf("profile load failed owner=%q: %v", owner.ID, err)
		return nil, err
	default:
		session.Saved = *profile
		session.Exists = true
	}

	publicURL, err := s.cfg.Codec.BuildPublicURL(owner.ID)
	if err != nil {
		return nil, err
	}
	session.PublicURL = publicURL
	s.Regenerate(session)
	return session, nil
}

func (s *dashboardService) Save(ctx context.Context, session *Session) error {
	patch := session.draft
	if err := patch.Validate(); err != nil {
		return err
	}
	if name := strings.TrimSpace(session.Owner.DisplayName); name != "" && name != session.Saved.OwnerDisplayName {
		patch.OwnerDisplayName = domain.StringPtr(name)
	}
	if patch.IsEmpty() {
		return nil
	}

	saved, err := s.cfg.Profiles.Save(ctx, session.Owner.ID, patch)
	if err != nil {
		s.logf("profile save failed owner=%q: %v", session.Owner.ID, err)
		return err
	}
	session.Saved = *saved
	session.Exists = true
	session.Cancel()
	return nil
}

func (s *dashboardService) Regenerate(session *Session) {
	png, err := s.cfg.Codec.Encode(session.PublicURL)
	if err != nil {
		s.logf("qr encoding failed owner=%q: %v", session.Owner.ID, err)
		session.QRCode = nil
		session.QRErr = err
		return
	}
	session.QRCode = png
	session.QRErr = nil
}

func (s *dashboardService) Counters(ctx context.Context, session *Session) (domain.VisitCounters, error) {
	return s.cfg.Counters.Get(ctx, session.Owner.ID)
}

func (s *dashboardService) ExportQRCode(session *Session) (QRExport, error) {
	if !session.QRAvailable() {
		if session.QRErr != nil {
			return QRExport{}, session.QRErr
		}
		return QRExport{}, fmt.Errorf("%w: no code rendered", qrcode.ErrEncoding)
	}
	return QRExport{
		Filename: qrcode.ExportFilename(session.DisplayName()),
		PNG:      session.QRCode,
	}, nil
}

func (s *dashboardService) logf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}
