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
	"github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/port/database"
)

// TaskService manages tasks within a project. Tasks are not quota-bound;
// only users and projects count against plan limits.
type TaskService struct {
	store  database.Store
	access *AccessController
	clock  func() time.Time
}

// NewTaskService builds the TaskService.
func NewTaskService(store database.Store, ac *AccessController) *TaskService {
	return &TaskService{store: store, access: ac, clock: time.Now}
}

// Create adds a task to a project. The task inherits the project's
// tenant; an assignee must belong to that same tenant.
func (s *TaskService) Create(ctx context.Context, actor *access.Actor, projectID string, req *task.CreateRequest, sourceAddr string) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionCreateTask,
		access.Target{TenantID: p.TenantID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if req.AssignedTo != "" {
		if err := s.checkAssignee(ctx, req.AssignedTo, p.TenantID); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	t := &task.Task{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		TenantID:    p.TenantID,
		Title:       req.Title,
		Description: req.Description,
		Status:      task.StatusTodo,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   t.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionCreateTask,
		EntityType: "task",
		EntityID:   t.ID,
		SourceAddr: sourceAddr,
	})
	return t, nil
}

// Get returns a task by ID. Foreign-tenant tasks read as not found.
func (s *TaskService) Get(ctx context.Context, actor *access.Actor, id string) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionReadTask,
		access.Target{TenantID: t.TenantID, ID: t.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns the tasks of one project.
func (s *TaskService) List(ctx context.Context, actor *access.Actor, projectID string, f task.ListFilter) ([]task.Task, int, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("get project: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionReadTask,
		access.Target{TenantID: p.TenantID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, err
	}
	items, total, err := s.store.ListTasks(ctx, projectID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return items, total, nil
}

// Update modifies a task. A bare status change is its own, less
// privileged, action so regular users can move their work through the
// board; any other field requires full write access.
func (s *TaskService) Update(ctx context.Context, actor *access.Actor, id string, req *task.UpdateRequest, sourceAddr string) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	action := access.ActionWriteTask
	auditAction := audit.ActionUpdateTask
	if statusOnly(req) {
		action = access.ActionChangeTaskStatus
		auditAction = audit.ActionUpdateTaskStatus
	}
	if err := s.access.Authorize(actor, action,
		access.Target{TenantID: t.TenantID, ID: t.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" {
		if err := s.checkAssignee(ctx, *req.AssignedTo, t.TenantID); err != nil {
			return nil, err
		}
	}

	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.Priority != "" {
		t.Priority = req.Priority
	}
	if req.AssignedTo != nil {
		t.AssignedTo = *req.AssignedTo
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	t.UpdatedAt = s.clock()

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   t.TenantID,
		ActorID:    actor.ID,
		Action:     auditAction,
		EntityType: "task",
		EntityID:   t.ID,
		SourceAddr: sourceAddr,
	})
	return t, nil
}

// statusOnly reports whether the update touches nothing but Status.
func statusOnly(req *task.UpdateRequest) bool {
	return req.Status != "" &&
		req.Title == "" &&
		req.Description == nil &&
		req.Priority == "" &&
		req.AssignedTo == nil &&
		req.DueDate == nil
}

// checkAssignee verifies the assignee exists and belongs to the task's
// tenant. A foreign-tenant assignee reads as an unknown user.
func (s *TaskService) checkAssignee(ctx context.Context, userID, tenantID string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: assignee not found", domain.ErrValidation)
		}
		return fmt.Errorf("check assignee: %w", err)
	}
	if u.TenantID != tenantID {
		return fmt.Errorf("%w: assignee not found", domain.ErrValidation)
	}
	return nil
}
