package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// PlaceholderName is shown when neither the profile nor the auth provider supplies a name.
const PlaceholderName = "My Business"

// Profile is the business identity published behind an owner identifier.
type Profile struct {
	OwnerID           string
	Name              string
	OwnerDisplayName  string
	LogoRef           string
	Category          Category
	Description       string
	ExternalReviewURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultProfile is what an owner sees before the first save.
func DefaultProfile(ownerID string) Profile {
	return Profile{OwnerID: ownerID}
}

// DisplayName returns the stored name, then fallback, then the stored auth name, then PlaceholderName.
func (p Profile) DisplayName(fallback string) string {
	for _, candidate := range []string{p.Name, fallback, p.OwnerDisplayName} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return PlaceholderName
}

// ReviewAvailable reports whether the review flow has somewhere to send the visitor.
func (p Profile) ReviewAvailable() bool {
	return strings.TrimSpace(p.ExternalReviewURL) != ""
}

// Apply returns a copy of p with every field present in patch overwritten.
func (p Profile) Apply(patch ProfilePatch) Profile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.OwnerDisplayName != nil {
		p.OwnerDisplayName = *patch.OwnerDisplayName
	}
	if patch.LogoRef != nil {
		p.LogoRef = *patch.LogoRef
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ExternalReviewURL != nil {
		p.ExternalReviewURL = *patch.ExternalReviewURL
	}
	return p
}

// ProfilePatch is a partial profile. Nil fields are left untouched by a save.
type ProfilePatch struct {
	Name              *string
	OwnerDisplayName  *string
	LogoRef           *string
	Category          *Category
	Description       *string
	ExternalReviewURL *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.OwnerDisplayName == nil && p.LogoRef == nil &&
		p.Category == nil && p.Description == nil && p.ExternalReviewURL == nil
}

// Merge layers next over p; fields set in next win.
func (p ProfilePatch) Merge(next ProfilePatch) ProfilePatch {
	if next.Name != nil {
		p.Name = next.Name
	}
	if next.OwnerDisplayName != nil {
		p.OwnerDisplayName = next.OwnerDisplayName
	}
	if next.LogoRef != nil {
		p.LogoRef = next.LogoRef
	}
	if next.Category != nil {
		p.Category = next.Category
	}
	if next.Description != nil {
		p.Description = next.Description
	}
	if next.ExternalReviewURL != nil {
		p.ExternalReviewURL = next.ExternalReviewURL
	}
	return p
}

// NewReviewURL validates the external review destination. Empty clears it.
func NewReviewURL(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidReviewURL, err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidReviewURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidReviewURL)
	}
	return trimmed, nil
}

// StringPtr is a helper for building patches.
func StringPtr(v string) *string {
	return &v
}

// CategoryPtr is a helper for building patches.
func CategoryPtr(v Category) *Category {
	return &v
}

// Validate checks the fields whose values are constrained.
func (p ProfilePatch) Validate() error {
	if p.Category != nil && *p.Category != "" {
		if _, err := NewCategory(p.Category.String()); err != nil {
			return err
		}
		if canonicalCategoryCode(p.Category.String()) != p.Category.String() {
			return fmt.Errorf("%w: %s is not canonical", ErrInvalidCategory, *p.Category)
		}
	}
	if p.ExternalReviewURL != nil {
		if _, err := NewReviewURL(*p.ExternalReviewURL); err != nil {
			return err
		}
	}
	return nil
}
