package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/domain/project"
	"github.com/taskhive/taskhive/internal/port/database"
)

// ProjectService manages projects within a tenant.
type ProjectService struct {
	store  database.Store
	access *AccessController
	clock  func() time.Time
}

// NewProjectService builds the ProjectService.
func NewProjectService(store database.Store, ac *AccessController) *ProjectService {
	return &ProjectService{store: store, access: ac, clock: time.Now}
}

// Create adds a project to a tenant, consuming one unit of project quota.
// super_admin may target any tenant but still pays quota: plan limits
// bind the tenant, not the actor.
func (s *ProjectService) Create(ctx context.Context, actor *access.Actor, tenantID string, req *project.CreateRequest, sourceAddr string) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	res, err := s.access.AuthorizeCreate(ctx, actor, access.ActionCreateProject,
		access.Target{TenantID: tenantID}, QuotaProjects)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	p := &project.Project{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		res.Release()
		return nil, fmt.Errorf("create project: %w", err)
	}
	res.Commit()

	s.access.Audit(ctx, audit.Event{
		TenantID:   tenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionCreateProject,
		EntityType: "project",
		EntityID:   p.ID,
		SourceAddr: sourceAddr,
	})
	return p, nil
}

// Get returns a project by ID. A project in a foreign tenant is reported
// as not found.
func (s *ProjectService) Get(ctx context.Context, actor *access.Actor, id string) (*project.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionReadProject,
		access.Target{TenantID: p.TenantID, ID: p.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns the projects of one tenant with derived task counts.
func (s *ProjectService) List(ctx context.Context, actor *access.Actor, tenantID string, f project.ListFilter) ([]project.Project, int, error) {
	if err := s.access.Authorize(actor, access.ActionReadProject,
		access.Target{TenantID: tenantID}); err != nil {
		return nil, 0, err
	}
	items, total, err := s.store.ListProjects(ctx, tenantID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return items, total, nil
}

// Update modifies a project's name, description, or status. TenantID and
// CreatedBy never change.
func (s *ProjectService) Update(ctx context.Context, actor *access.Actor, id string, req *project.UpdateRequest, sourceAddr string) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionWriteProject,
		access.Target{TenantID: p.TenantID, ID: p.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != "" {
		p.Status = req.Status
	}
	p.UpdatedAt = s.clock()

	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   p.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionUpdateProject,
		EntityType: "project",
		EntityID:   p.ID,
		SourceAddr: sourceAddr,
	})
	return p, nil
}

// Delete removes a project and, through the schema's cascade, all of its
// tasks.
func (s *ProjectService) Delete(ctx context.Context, actor *access.Actor, id string, sourceAddr string) error {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionDeleteProject,
		access.Target{TenantID: p.TenantID, ID: p.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return domain.ErrNotFound
		}
		return err
	}

	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   p.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionDeleteProject,
		EntityType: "project",
		EntityID:   p.ID,
		SourceAddr: sourceAddr,
	})
	return nil
}
