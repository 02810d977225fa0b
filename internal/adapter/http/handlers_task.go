package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/middleware"
)

// CreateTask handles POST /api/v1/projects/{id}/tasks.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.Create(r.Context(), actor, urlParam(r, "id"), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTasks handles GET /api/v1/projects/{id}/tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	f := task.ListFilter{
		Status:     task.Status(r.URL.Query().Get("status")),
		Priority:   task.Priority(r.URL.Query().Get("priority")),
		AssignedTo: r.URL.Query().Get("assigned_to"),
		Search:     r.URL.Query().Get("search"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	items, total, err := h.Tasks.List(r.Context(), actor, urlParam(r, "id"), f)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total))
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	t, err := h.Tasks.Get(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTask handles PUT /api/v1/tasks/{id}.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	req, ok := readJSON[task.UpdateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.Update(r.Context(), actor, urlParam(r, "id"), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
