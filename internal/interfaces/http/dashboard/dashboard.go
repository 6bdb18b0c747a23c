package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	dashboardapp "github.com/sngm3741/qr-review/api/internal/dashboard/application"
	"github.com/sngm3741/qr-review/api/internal/interfaces/http/common"
)

// startSession はトークンのオーナーでダッシュボードのセッションを開始する。
// 失敗時はレスポンスを書き込み nil を返す。
func (h *Handler) startSession(ctx context.Context, w http.ResponseWriter, r *http.Request) *dashboardapp.Session {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return nil
	}

	session, err := h.dashboard.Start(ctx, dashboardapp.Owner{ID: user.ID, DisplayName: user.Name})
	if err != nil {
		common.WriteDomainError(h.logger, w, "dashboard start", err)
		return nil
	}
	return session
}

func (h *Handler) decodePatch(w http.ResponseWriter, r *http.Request) (profilePatchRequest, bool) {
	var req profilePatchRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, "malformed request body")
		return profilePatchRequest{}, false
	}
	return req, true
}

func (h *Handler) dashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session := h.startSession(ctx, w, r)
		if session == nil {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.buildDashboardResponse(session))
	}
}

func (h *Handler) countersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session := h.startSession(ctx, w, r)
		if session == nil {
			return
		}
		counters, err := h.dashboard.Counters(ctx, session)
		if err != nil {
			common.WriteDomainError(h.logger, w, "dashboard counters", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, countersResponse{
			ScanCount:        counters.ScanCount,
			TotalReviews:     counters.TotalReviews,
			ReviewsThisMonth: counters.ReviewsThisMonth,
		})
	}
}

// profileSaveHandler は部分更新をマージ保存する。送られなかった項目は変更しない。
func (h *Handler) profileSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodePatch(w, r)
		if !ok {
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			common.WriteDomainError(h.logger, w, "profile save", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session := h.startSession(ctx, w, r)
		if session == nil {
			return
		}
		session.Edit(patch)
		if err := h.dashboard.Save(ctx, session); err != nil {
			common.WriteDomainError(h.logger, w, "profile save", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, h.buildDashboardResponse(session))
	}
}

// profilePreviewHandler は下書きを適用した表示を返し、保存せずに破棄する。
func (h *Handler) profilePreviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodePatch(w, r)
		if !ok {
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			common.WriteDomainError(h.logger, w, "profile preview", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session := h.startSession(ctx, w, r)
		if session == nil {
			return
		}
		session.Edit(patch)
		resp := h.buildDashboardResponse(session)
		session.Cancel()
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

func (h *Handler) qrDownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session := h.startSession(ctx, w, r)
		if session == nil {
			return
		}
		export, err := h.dashboard.ExportQRCode(session)
		if err != nil {
			common.WriteDomainError(h.logger, w, "qr export", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(export.PNG)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(export.PNG); err != nil && h.logger != nil {
			h.logger.Printf("qr download write failed owner=%q: %v", session.Owner.ID, err)
		}
	}
}
