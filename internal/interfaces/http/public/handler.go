package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/sngm3741/qr-review/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger     *log.Logger
	resolution publicapp.ResolutionService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger     *log.Logger
	Resolution publicapp.ResolutionService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		resolution: cfg.Resolution,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/review/{ownerId}", h.reviewPageHandler())
	r.Get("/review/{ownerId}/prompts", h.promptsHandler())
	r.Post("/review/{ownerId}/redirect", h.redirectHandler())
}
