package dashboard

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	dashboardapp "github.com/sngm3741/qr-review/api/internal/dashboard/application"
	"github.com/sngm3741/qr-review/api/internal/media"
)

// Handler wires owner dashboard endpoints to the dashboard service.
type Handler struct {
	logger    *log.Logger
	dashboard dashboardapp.Service
	media     media.Resolver
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *log.Logger
	Dashboard dashboardapp.Service
	Media     media.Resolver
}

// NewHandler constructs a dashboard HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		dashboard: cfg.Dashboard,
		media:     cfg.Media,
	}
}

// Register mounts dashboard routes behind authMiddleware.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.dashboardHandler())
		r.Get("/counters", h.countersHandler())
		r.Patch("/profile", h.profileSaveHandler())
		r.Post("/profile/preview", h.profilePreviewHandler())
		r.Get("/qr.png", h.qrDownloadHandler())
	})
}
