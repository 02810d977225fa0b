package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/project"
	"github.com/taskhive/taskhive/internal/middleware"
)

// CreateProject handles POST /api/v1/projects.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[project.CreateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Projects.Create(r.Context(), actor, targetTenant(r, actor), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListProjects handles GET /api/v1/projects.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	f := project.ListFilter{
		Status: project.Status(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	items, total, err := h.Projects.List(r.Context(), actor, targetTenant(r, actor), f)
	if err != nil {
		writeDomainError(w, err, "projects not found")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total))
}

// GetProject handles GET /api/v1/projects/{id}.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	p, err := h.Projects.Get(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject handles PUT /api/v1/projects/{id}.
func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[project.UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Projects.Update(r.Context(), actor, urlParam(r, "id"), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/v1/projects/{id}.
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := h.Projects.Delete(r.Context(), actor, urlParam(r, "id"), remoteAddr(r)); err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
