package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/qr-review/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/qr-review/api/internal/public/application"
)

// reviewPageHandler は公開 URL を解決し、訪問数を 1 件加算してプロフィールを返す。
func (h *Handler) reviewPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ownerID := chi.URLParam(r, "ownerId")
		view, err := h.resolution.Resolve(ctx, ownerID)
		if err != nil {
			common.WriteDomainError(h.logger, w, "review page", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildReviewPageResponse(view))
	}
}

// promptsHandler は「別の文例を見る」用に新しい文例セットを返す。訪問数は加算しない。
func (h *Handler) promptsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 0
		if raw := r.URL.Query().Get("count"); raw != "" {
			parsed, ok := common.ParsePositiveInt(raw, 0)
			if !ok || parsed > common.MaxPromptCount {
				common.WriteError(h.logger, w, http.StatusBadRequest, "invalid prompt count")
				return
			}
			count = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		flow, offered, err := h.resolution.StartReview(ctx, chi.URLParam(r, "ownerId"), publicapp.ReviewOptions{
			Clipboard:   &stagedClipboard{},
			Navigator:   &directiveNavigator{},
			Scheduler:   &deferredScheduler{},
			PromptCount: count,
		})
		if err != nil {
			common.WriteDomainError(h.logger, w, "review prompts", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, promptsResponse{State: flow.State(), Prompts: offered})
	}
}

// redirectHandler は選ばれた文例をクリップボード指示とリダイレクト指示に変換する。
func (h *Handler) redirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req redirectRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "malformed request body")
			return
		}
		selected, ok := h.resolution.Prompt(req.PromptID)
		if !ok {
			common.WriteError(h.logger, w, http.StatusBadRequest, "unknown prompt")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		clipboard := &stagedClipboard{}
		navigator := &directiveNavigator{}
		scheduler := &deferredScheduler{}
		flow, _, err := h.resolution.StartReview(ctx, chi.URLParam(r, "ownerId"), publicapp.ReviewOptions{
			Clipboard: clipboard,
			Navigator: navigator,
			Scheduler: scheduler,
		})
		if err != nil {
			common.WriteDomainError(h.logger, w, "review redirect", err)
			return
		}

		outcome, err := flow.Select(ctx, selected.Text)
		if err != nil {
			common.WriteDomainError(h.logger, w, "review redirect", err)
			return
		}

		target := navigator.target
		if target == "" {
			target = outcome.Destination
		}
		common.WriteJSON(h.logger, w, http.StatusOK, redirectResponse{
			State:         outcome.State,
			Copied:        outcome.Copied,
			ClipboardText: clipboard.text,
			RedirectURL:   target,
			DelayMs:       scheduler.delay.Milliseconds(),
			NewTab:        outcome.NewTab,
		})
	}
}
