package notifications

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/platform/httpx"
)

// Handler serves the notification routes: the guarded admin broadcast and
// the authenticated user inbox.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountBroadcast registers the admin broadcast route; the caller guards it
// with the write permission.
func (h *Handler) MountBroadcast(r chi.Router) {
	r.Post("/notifications", h.broadcast)
}

// MountInbox registers the authenticated inbox routes.
func (h *Handler) MountInbox(r chi.Router) {
	r.Get("/", h.inbox)
	r.Post("/{notificationID}/read", h.markRead)
}

type broadcastRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required,max=2000"`
}

func (h *Handler) broadcast(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "Admin access required")
		return
	}
	var req broadcastRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	broadcastID, err := h.service.Broadcast(r.Context(), actor.Identity.UserID, req.Title, req.Body)
	if err != nil {
		h.logger.Error("enqueue broadcast", slog.Any("error", err))
		httpx.Error(w, http.StatusServiceUnavailable, "could not enqueue notification")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"broadcastId": broadcastID})
}

func (h *Handler) inbox(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.Inbox(r.Context(), actor.Identity.UserID, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Notification{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	if err := h.service.MarkRead(r.Context(), actor.Identity.UserID, chi.URLParam(r, "notificationID")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
