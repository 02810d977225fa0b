package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/user"
	"github.com/taskhive/taskhive/internal/middleware"
)

// targetTenant resolves the tenant a collection request operates on: the
// actor's own tenant, or the tenant_id query parameter when the caller
// is tenant-less (super_admin). The authorization layer rejects foreign
// tenant IDs for everyone else.
func targetTenant(r *http.Request, actor *access.Actor) string {
	if t := r.URL.Query().Get("tenant_id"); t != "" {
		return t
	}
	return actor.TenantID
}

// CreateUser handles POST /api/v1/users.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Users.Create(r.Context(), actor, targetTenant(r, actor), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /api/v1/users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	f := user.ListFilter{
		Search: r.URL.Query().Get("search"),
		Role:   user.Role(r.URL.Query().Get("role")),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	items, total, err := h.Users.List(r.Context(), actor, targetTenant(r, actor), f)
	if err != nil {
		writeDomainError(w, err, "users not found")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total))
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	u, err := h.Users.Get(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /api/v1/users/{id}.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[user.UpdateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Users.Update(r.Context(), actor, urlParam(r, "id"), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := h.Users.Delete(r.Context(), actor, urlParam(r, "id"), remoteAddr(r)); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
