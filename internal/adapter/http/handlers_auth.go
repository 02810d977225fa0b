package http

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/domain/user"
	"github.com/taskhive/taskhive/internal/middleware"
)

// Register handles POST /api/v1/auth/register: self-service tenant
// registration on the free plan.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.RegisterRequest](w, r)
	if !ok {
		return
	}

	tn, admin, err := h.Auth.RegisterTenant(r.Context(), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"tenant": tn,
		"admin":  admin,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.Auth.Login(r.Context(), &req, remoteAddr(r))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	h.Auth.Logout(r.Context(), actor, remoteAddr(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/v1/auth/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	u, err := h.Auth.Me(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
