package dashboard

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	dashboardapp "github.com/sngm3741/qr-review/api/internal/dashboard/application"
	"github.com/sngm3741/qr-review/api/internal/domain"
)

type profilePayload struct {
	Name              string     `json:"name"`
	LogoRef           string     `json:"logoRef,omitempty"`
	LogoURL           string     `json:"logoUrl,omitempty"`
	Category          string     `json:"category,omitempty"`
	Description       string     `json:"description,omitempty"`
	ExternalReviewURL string     `json:"externalReviewUrl,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type dashboardResponse struct {
	OwnerID         string         `json:"ownerId"`
	DisplayName     string         `json:"displayName"`
	Profile         profilePayload `json:"profile"`
	Saved           bool           `json:"saved"`
	Dirty           bool           `json:"dirty"`
	PublicURL       string         `json:"publicUrl"`
	QRCode          string         `json:"qrCode,omitempty"`
	QRAvailable     bool           `json:"qrAvailable"`
	ReviewAvailable bool           `json:"reviewAvailable"`
	Categories      []string       `json:"categories"`
}

type countersResponse struct {
	ScanCount        int64 `json:"scanCount"`
	TotalReviews     int64 `json:"totalReviews"`
	ReviewsThisMonth int64 `json:"reviewsThisMonth"`
}

// profilePatchRequest uses pointers so that absent fields stay untouched on save.
type profilePatchRequest struct {
	Name              *string `json:"name"`
	LogoRef           *string `json:"logoRef"`
	Category          *string `json:"category"`
	Description       *string `json:"description"`
	ExternalReviewURL *string `json:"externalReviewUrl"`
}

func (req profilePatchRequest) toPatch() (domain.ProfilePatch, error) {
	var patch domain.ProfilePatch
	if req.Name != nil {
		patch.Name = domain.StringPtr(strings.TrimSpace(*req.Name))
	}
	if req.LogoRef != nil {
		patch.LogoRef = domain.StringPtr(strings.TrimSpace(*req.LogoRef))
	}
	if req.Category != nil {
		category, err := domain.NewCategory(*req.Category)
		if err != nil {
			return domain.ProfilePatch{}, err
		}
		patch.Category = domain.CategoryPtr(category)
	}
	if req.Description != nil {
		patch.Description = domain.StringPtr(strings.TrimSpace(*req.Description))
	}
	if req.ExternalReviewURL != nil {
		reviewURL, err := domain.NewReviewURL(*req.ExternalReviewURL)
		if err != nil {
			return domain.ProfilePatch{}, err
		}
		patch.ExternalReviewURL = domain.StringPtr(reviewURL)
	}
	return patch, nil
}

func (h *Handler) buildDashboardResponse(session *dashboardapp.Session) dashboardResponse {
	profile := session.Draft()
	resp := dashboardResponse{
		OwnerID:     session.Owner.ID,
		DisplayName: session.DisplayName(),
		Profile: profilePayload{
			Name:              profile.Name,
			LogoRef:           profile.LogoRef,
			LogoURL:           h.media.Resolve(profile.LogoRef),
			Category:          profile.Category.String(),
			Description:       profile.Description,
			ExternalReviewURL: profile.ExternalReviewURL,
			CreatedAt:         timePtr(profile.CreatedAt),
			UpdatedAt:         timePtr(profile.UpdatedAt),
		},
		Saved:           session.Exists,
		Dirty:           session.Dirty(),
		PublicURL:       session.PublicURL,
		QRAvailable:     session.QRAvailable(),
		ReviewAvailable: profile.ReviewAvailable(),
		Categories:      make([]string, 0, len(domain.AllowedCategories)),
	}
	if resp.QRAvailable {
		resp.QRCode = fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(session.QRCode))
	}
	for _, c := range domain.AllowedCategories {
		resp.Categories = append(resp.Categories, c.String())
	}
	return resp
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
