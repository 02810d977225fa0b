package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/port/database"
)

// TenantService exposes tenant reads and updates. Tenants are created
// only through AuthService.RegisterTenant and never deleted; suspension
// is the off switch.
type TenantService struct {
	store  database.Store
	access *AccessController
	clock  func() time.Time
}

// NewTenantService builds the TenantService.
func NewTenantService(store database.Store, ac *AccessController) *TenantService {
	return &TenantService{store: store, access: ac, clock: time.Now}
}

// Get returns a tenant by ID. A cross-tenant denial is reported as
// ErrNotFound so the endpoint cannot confirm that a foreign tenant
// exists.
func (s *TenantService) Get(ctx context.Context, actor *access.Actor, id string) (*tenant.Tenant, error) {
	if err := s.access.Authorize(actor, access.ActionReadTenant, access.Target{TenantID: id, ID: id}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// List returns all tenants. The empty target tenant makes this a
// platform-level read only super_admin passes.
func (s *TenantService) List(ctx context.Context, actor *access.Actor, f tenant.ListFilter) ([]tenant.Tenant, int, error) {
	if err := s.access.Authorize(actor, access.ActionReadTenant, access.Target{}); err != nil {
		return nil, 0, err
	}
	items, total, err := s.store.ListTenants(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	return items, total, nil
}

// Stats returns aggregate resource counts for a tenant.
func (s *TenantService) Stats(ctx context.Context, actor *access.Actor, id string) (tenant.Stats, error) {
	if err := s.access.Authorize(actor, access.ActionReadTenant, access.Target{TenantID: id, ID: id}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return tenant.Stats{}, domain.ErrNotFound
		}
		return tenant.Stats{}, err
	}
	st, err := s.store.TenantStats(ctx, id)
	if err != nil {
		return tenant.Stats{}, fmt.Errorf("tenant stats: %w", err)
	}
	return st, nil
}

// Update applies a tenant change. Requests touching status, plan, or
// limit overrides are billing-level and require super_admin; a bare name
// change needs only tenant_admin. A plan change without explicit limit
// overrides resets the limits to the new plan's defaults.
func (s *TenantService) Update(ctx context.Context, actor *access.Actor, id string, req *tenant.UpdateRequest, sourceAddr string) (*tenant.Tenant, error) {
	action := access.ActionWriteTenantSettings
	if req.Billing() {
		action = access.ActionWriteTenantBilling
	}
	if err := s.access.Authorize(actor, action, access.Target{TenantID: id, ID: id}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if req.Status != "" && !tenant.ValidStatuses[req.Status] {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, req.Status)
	}
	if req.Plan != "" && !tenant.ValidPlans[req.Plan] {
		return nil, fmt.Errorf("%w: invalid plan %q", domain.ErrValidation, req.Plan)
	}

	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.Plan != "" && req.Plan != t.Plan {
		t.Plan = req.Plan
		t.Limits = tenant.PlanDefaults(req.Plan)
	}
	if req.MaxUsers != nil {
		t.Limits.MaxUsers = *req.MaxUsers
	}
	if req.MaxProjects != nil {
		t.Limits.MaxProjects = *req.MaxProjects
	}
	t.UpdatedAt = s.clock()

	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   t.ID,
		ActorID:    actor.ID,
		Action:     audit.ActionUpdateTenant,
		EntityType: "tenant",
		EntityID:   t.ID,
		SourceAddr: sourceAddr,
	})
	return t, nil
}
