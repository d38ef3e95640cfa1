package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/anitrack/anitrack/internal/platform/httpx"
)

// Guard composes Verifier, Resolver and Policy into route middleware.
// It runs them in sequence, short-circuits on the first rejection, and on
// success hands the wrapped handler an authenticated context. The guard
// itself mutates nothing, so replaying a rejected request is always safe.
type Guard struct {
	verifier *Verifier
	resolver *Resolver
	policy   *Policy
	audit    *AuditLogger
	logger   *slog.Logger
}

// NewGuard wires the gateway components together.
func NewGuard(verifier *Verifier, resolver *Resolver, policy *Policy, audit *AuditLogger, logger *slog.Logger) *Guard {
	return &Guard{
		verifier: verifier,
		resolver: resolver,
		policy:   policy,
		audit:    audit,
		logger:   logger,
	}
}

// Authenticate requires a valid credential resolving to a live identity.
// No admin record is consulted.
func (g *Guard) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := g.authenticate(r)
			if err != nil {
				g.respondRejection(w, r, err)
				return
			}
			if r.Context().Err() != nil {
				// Request cancelled before dispatch; do not invoke the handler.
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}

// Require additionally evaluates the route's role and permission
// requirements. PermissionNone checks role presence alone.
func (g *Guard) Require(role Role, perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := g.authenticate(r)
			if err != nil {
				g.respondRejection(w, r, err)
				return
			}
			record, err := g.policy.Authorize(r.Context(), actor.Identity, role, perm)
			if err != nil {
				g.respondRejection(w, r, err)
				return
			}
			actor.Admin = &record
			if r.Context().Err() != nil {
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin is Require(RoleAdmin, PermissionNone): a pure "is this
// caller an admin" gate.
func (g *Guard) RequireAdmin() func(http.Handler) http.Handler {
	return g.Require(RoleAdmin, PermissionNone)
}

// Sensitive marks the wrapped route as audit-worthy: after a successful
// dispatch (2xx) the guard records the action fire-and-forget. It must run
// inside Authenticate or Require so the actor is present in context.
func (g *Guard) Sensitive(action, resourceType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			actor := ActorFromContext(r.Context())
			if actor == nil || sw.status() >= 300 {
				return
			}
			g.audit.Record(AuditEntry{
				ActorID:      actor.Identity.UserID,
				Action:       action,
				ResourceType: resourceType,
				ResourceID:   resourceIDFromRequest(r),
				Metadata: map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
				},
			})
		})
	}
}

func (g *Guard) authenticate(r *http.Request) (*Actor, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	subject, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	identity, err := g.resolver.Resolve(r.Context(), subject)
	if err != nil {
		return nil, err
	}
	return &Actor{Identity: identity}, nil
}

func (g *Guard) respondRejection(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := AsRejection(err); ok {
		if rej.Status >= http.StatusInternalServerError {
			g.logger.Error("auth gateway rejection",
				slog.String("code", string(rej.Code)),
				slog.String("path", r.URL.Path))
		}
		httpx.Error(w, rej.Status, rej.Message)
		return
	}
	g.logger.Error("auth gateway unexpected error", slog.Any("error", err))
	httpx.Error(w, http.StatusInternalServerError, "internal error")
}

// bearerToken extracts the credential from the Authorization header. An
// absent or non-Bearer header never reaches the verifier.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingCredential
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingCredential
	}
	return strings.TrimSpace(token), nil
}

func resourceIDFromRequest(r *http.Request) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if w.code == 0 {
		w.code = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(data []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

func (w *statusWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}
