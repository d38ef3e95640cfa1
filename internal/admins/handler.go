package admins

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/platform/httpx"
)

// Handler serves admin provisioning routes. Bootstrap only needs an
// authenticated identity (the policy decides whether the path is open);
// provisioning requires super_admin with the admin permission, enforced by
// the guard at mount time.
type Handler struct {
	logger    *slog.Logger
	policy    *auth.Policy
	users     auth.UserStore
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, policy *auth.Policy, users auth.UserStore) *Handler {
	return &Handler{
		logger:    logger,
		policy:    policy,
		users:     users,
		validator: validator.New(),
	}
}

// MountBootstrap registers the self-provisioning route.
func (h *Handler) MountBootstrap(r chi.Router) {
	r.Post("/bootstrap", h.handleBootstrap)
}

// MountProvision registers the privileged admin-creation route.
func (h *Handler) MountProvision(r chi.Router) {
	r.Post("/admins", h.handleProvision)
}

type adminResponse struct {
	AdminID     string    `json:"adminId"`
	UserID      string    `json:"userId"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAdminResponse(record auth.AdminRecord) adminResponse {
	return adminResponse{
		AdminID:     record.ID,
		UserID:      record.UserID,
		Role:        string(record.Role),
		Permissions: record.Permissions.Strings(),
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
	}
}

func (h *Handler) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	record, err := h.policy.Bootstrap(r.Context(), actor.Identity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("bootstrap admin created",
		slog.String("admin_id", record.ID),
		slog.String("user_id", record.UserID))
	httpx.JSON(w, http.StatusCreated, toAdminResponse(record))
}

type provisionRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Role        string   `json:"role" validate:"omitempty,oneof=admin super_admin"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,oneof=read write delete admin"`
}

func (h *Handler) handleProvision(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil || actor.Admin == nil {
		httpx.Error(w, http.StatusUnauthorized, "Admin access required")
		return
	}
	var req provisionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	perms, err := auth.ParsePermissions(req.Permissions)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.policy.Provision(r.Context(), *actor.Admin, target.UserID, auth.Role(req.Role), perms)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAdminResponse(record))
}
