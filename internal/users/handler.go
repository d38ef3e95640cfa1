package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/platform/httpx"
)

// Handler serves the authenticated profile routes.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountRoutes registers profile routes. The caller wraps them with the
// guard's Authenticate middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.getProfile)
	r.Patch("/", h.updateProfile)
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=64"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	profile, err := h.repo.GetProfile(r.Context(), actor.Identity.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := h.repo.UpdateProfile(r.Context(), actor.Identity.UserID, req.DisplayName, req.AvatarURL, req.Bio)
	if err != nil {
		h.logger.Warn("update profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
