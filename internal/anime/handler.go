package anime

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anitrack/anitrack/internal/platform/httpx"
	"github.com/anitrack/anitrack/internal/shared"
)

// Handler serves the public catalog routes.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search", h.search)
	r.Get("/trending", h.trending)
	r.Get("/{animeID}", h.detail)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httpx.Error(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	page, perPage := shared.PageParams(r, 50)
	result, err := h.service.Search(r.Context(), query, page, perPage)
	if err != nil {
		h.logger.Warn("catalog search", slog.Any("error", err))
		httpx.Error(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) trending(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 50)
	result, err := h.service.Trending(r.Context(), page, perPage)
	if err != nil {
		h.logger.Warn("catalog trending", slog.Any("error", err))
		httpx.Error(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid anime id")
		return
	}
	result, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.logger.Warn("catalog detail", slog.Any("error", err))
		httpx.Error(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
