package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sngm3741/qr-review/api/internal/domain"
)

// ReviewSegment is the fixed path segment in front of the owner identifier.
const ReviewSegment = "review"

// URLBuilder derives canonical public URLs from a fixed origin.
type URLBuilder struct {
	origin string
}

// NewURLBuilder validates origin (scheme and host, no path) and drops any trailing slash.
func NewURLBuilder(origin string) (*URLBuilder, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse public origin: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("public origin %q must include scheme and host", origin)
	}
	if parsed.Path != "" || parsed.RawQuery != "" || parsed.Fragment != "" {
		return nil, fmt.Errorf("public origin %q must not carry a path, query or fragment", origin)
	}
	return &URLBuilder{origin: trimmed}, nil
}

// Origin returns the normalised origin.
func (b *URLBuilder) Origin() string {
	return b.origin
}

// BuildPublicURL returns {origin}/review/{ownerID}. The identifier is copied verbatim.
func (b *URLBuilder) BuildPublicURL(ownerID string) (string, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return "", err
	}
	return b.origin + "/" + ReviewSegment + "/" + ownerID, nil
}

// OwnerIDFromURL is the inverse of BuildPublicURL.
func (b *URLBuilder) OwnerIDFromURL(publicURL string) (string, error) {
	prefix := b.origin + "/" + ReviewSegment + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", fmt.Errorf("%w: %q is not under %s", domain.ErrInvalidIdentifier, publicURL, prefix)
	}
	ownerID := strings.TrimPrefix(publicURL, prefix)
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return "", err
	}
	return ownerID, nil
}
