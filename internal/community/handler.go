package community

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/platform/httpx"
	"github.com/anitrack/anitrack/internal/shared"
)

// Handler serves community routes. Listing and detail are public; join and
// leave are mounted behind the guard.
type Handler struct {
	repo Repository
}

// NewHandler constructs a Handler instance.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// MountPublicRoutes registers the unauthenticated routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{communityID}", h.get)
}

// MountMemberRoutes registers routes requiring an authenticated actor.
func (h *Handler) MountMemberRoutes(r chi.Router) {
	r.Post("/{communityID}/join", h.join)
	r.Delete("/{communityID}/join", h.leave)
}

type listResponse struct {
	Items      []Community       `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 50)
	items, total, err := h.repo.List(r.Context(), (page-1)*perPage, perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Community{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.Get(r.Context(), chi.URLParam(r, "communityID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	m, err := h.repo.Join(r.Context(), chi.URLParam(r, "communityID"), actor.Identity.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) leave(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		httpx.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}
	if err := h.repo.Leave(r.Context(), chi.URLParam(r, "communityID"), actor.Identity.UserID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
