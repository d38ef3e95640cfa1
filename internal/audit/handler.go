package audit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anitrack/anitrack/internal/platform/httpx"
	"github.com/anitrack/anitrack/internal/shared"
)

// Handler serves the admin audit timeline.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the timeline route; the caller guards it.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.timeline)
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	page, pageSize := shared.PageParams(r, 50)
	filters := TimelineFilters{
		ActorID:  r.URL.Query().Get("actor"),
		Action:   r.URL.Query().Get("action"),
		Page:     page,
		PageSize: pageSize,
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.To = t
		}
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
