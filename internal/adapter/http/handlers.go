package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/service"
)

// Handlers bundles the application services behind the HTTP surface.
type Handlers struct {
	Auth     *service.AuthService
	Tenants  *service.TenantService
	Users    *service.UserService
	Projects *service.ProjectService
	Tasks    *service.TaskService
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
