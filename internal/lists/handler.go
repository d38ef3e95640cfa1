package lists

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/platform/httpx"
)

// Handler serves the authenticated list routes.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers list routes; the caller wraps them with the guard's
// Authenticate middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Patch("/{animeID}", h.update)
	r.Delete("/{animeID}", h.remove)
}

type addEntryRequest struct {
	AnimeID    int    `json:"animeId" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,max=256"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Status     string `json:"status" validate:"omitempty,oneof=watching completed on_hold dropped plan_to_watch"`
	Progress   int    `json:"progress" validate:"gte=0"`
	Score      int    `json:"score" validate:"gte=0,lte=10"`
}

type updateEntryRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=watching completed on_hold dropped plan_to_watch"`
	Progress *int    `json:"progress" validate:"omitempty,gte=0"`
	Score    *int    `json:"score" validate:"omitempty,gte=0,lte=10"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	entries, err := h.service.List(r.Context(), actor.Identity.UserID, r.URL.Query().Get("status"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	var req addEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.service.Add(r.Context(), Entry{
		UserID:     actor.Identity.UserID,
		AnimeID:    req.AnimeID,
		Title:      req.Title,
		CoverImage: req.CoverImage,
		Status:     WatchStatus(req.Status),
		Progress:   req.Progress,
		Score:      req.Score,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	animeID, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || animeID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid anime id")
		return
	}
	var req updateEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.service.Update(r.Context(), actor.Identity.UserID, animeID, UpdateParams{
		Status:   req.Status,
		Progress: req.Progress,
		Score:    req.Score,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	animeID, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || animeID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid anime id")
		return
	}
	if err := h.service.Remove(r.Context(), actor.Identity.UserID, animeID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
