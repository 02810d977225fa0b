package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/port/auditlog"
)

// AccessController is the single gate every operation passes through:
// it authenticates bearer tokens, authorizes actions against the role
// matrix, reserves quota for creations, and records audit events.
type AccessController struct {
	tokens *TokenService
	quota  *QuotaEnforcer
	sink   auditlog.Sink
	clock  func() time.Time
}

// NewAccessController wires the controller from its collaborators.
func NewAccessController(tokens *TokenService, quota *QuotaEnforcer, sink auditlog.Sink) *AccessController {
	return &AccessController{
		tokens: tokens,
		quota:  quota,
		sink:   sink,
		clock:  time.Now,
	}
}

// Authenticate resolves an Authorization header to an actor. A missing or
// non-Bearer header yields ErrUnauthenticated; so does any token failure,
// without detail.
func (ac *AccessController) Authenticate(authHeader string) (*access.Actor, error) {
	raw := strings.TrimPrefix(authHeader, "Bearer ")
	if raw == authHeader || raw == "" {
		return nil, domain.ErrUnauthenticated
	}
	actor, err := ac.tokens.Verify(raw, ac.clock())
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return actor, nil
}

// Authorize evaluates the role matrix for one action. A denial comes back
// as a ForbiddenError carrying the machine-readable reason.
func (ac *AccessController) Authorize(actor *access.Actor, action access.Action, target access.Target) error {
	d := access.Decide(actor, action, target)
	if !d.Allowed {
		return domain.Forbidden(d.Reason)
	}
	return nil
}

// AuthorizeCreate combines the role check with a quota reservation for
// resource creation. Authorization is evaluated first: an actor who is
// not allowed to create never consumes quota.
func (ac *AccessController) AuthorizeCreate(ctx context.Context, actor *access.Actor, action access.Action, target access.Target, kind QuotaKind) (*Reservation, error) {
	if err := ac.Authorize(actor, action, target); err != nil {
		return nil, err
	}
	return ac.quota.Reserve(ctx, target.TenantID, kind)
}

// Audit records an event on the configured sink. Recording is best
// effort: a sink failure is logged and swallowed, it never fails the
// operation that produced the event.
func (ac *AccessController) Audit(ctx context.Context, ev audit.Event) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = ac.clock()
	}
	if err := ac.sink.Record(ctx, ev); err != nil {
		slog.Warn("audit record failed",
			"action", ev.Action,
			"entity_type", ev.EntityType,
			"error", err)
	}
}
