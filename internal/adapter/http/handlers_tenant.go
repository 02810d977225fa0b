package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/middleware"
)

// ListTenants handles GET /api/v1/tenants (platform operator only).
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	f := tenant.ListFilter{
		Status: tenant.Status(r.URL.Query().Get("status")),
		Plan:   tenant.Plan(r.URL.Query().Get("plan")),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	items, total, err := h.Tenants.List(r.Context(), actor, f)
	if err != nil {
		writeDomainError(w, err, "tenants not found")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total))
}

// GetTenant handles GET /api/v1/tenants/{id}.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	t, err := h.Tenants.Get(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTenant handles PUT /api/v1/tenants/{id}.
func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[tenant.UpdateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tenants.Update(r.Context(), actor, urlParam(r, "id"), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// TenantStats handles GET /api/v1/tenants/{id}/stats.
func (h *Handlers) TenantStats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	st, err := h.Tenants.Stats(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
