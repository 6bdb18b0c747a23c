package public

import (
	"github.com/sngm3741/qr-review/api/internal/prompt"
	publicapp "github.com/sngm3741/qr-review/api/internal/public/application"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

type reviewPageResponse struct {
	OwnerID         string `json:"ownerId"`
	DisplayName     string `json:"displayName"`
	LogoURL         string `json:"logoUrl,omitempty"`
	Category        string `json:"category,omitempty"`
	Description     string `json:"description,omitempty"`
	PublicURL       string `json:"publicUrl"`
	ReviewAvailable bool   `json:"reviewAvailable"`
	Notice          string `json:"notice,omitempty"`
}

type promptsResponse struct {
	State   redirect.State  `json:"state"`
	Prompts []prompt.Prompt `json:"prompts"`
}

type redirectRequest struct {
	PromptID int `json:"promptId"`
}

type redirectResponse struct {
	State         redirect.State `json:"state"`
	Copied        bool           `json:"copied"`
	ClipboardText string         `json:"clipboardText"`
	RedirectURL   string         `json:"redirectUrl"`
	DelayMs       int64          `json:"delayMs"`
	NewTab        bool           `json:"newTab"`
}

// buildReviewPageResponse は公開プロフィールを訪問者向け DTO に変換する。
func buildReviewPageResponse(view *publicapp.PublicProfile) reviewPageResponse {
	resp := reviewPageResponse{
		OwnerID:         view.OwnerID,
		DisplayName:     view.DisplayName,
		LogoURL:         view.LogoURL,
		Category:        view.Category.String(),
		Description:     view.Description,
		PublicURL:       view.PublicURL,
		ReviewAvailable: view.ReviewAvailable,
	}
	if !view.ReviewAvailable {
		resp.Notice = redirect.UnavailableNotice
	}
	return resp
}
