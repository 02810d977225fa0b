// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain/project"
	"github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/domain/user"
)

// Store is the port interface for database operations. Tenant counts are
// read only through CountUsers/CountProjects; the quota enforcer is the
// sole component allowed to act on them.
type Store interface {
	// Tenants
	CreateTenantWithAdmin(ctx context.Context, t *tenant.Tenant, admin *user.User) error
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
	ListTenants(ctx context.Context, f tenant.ListFilter) ([]tenant.Tenant, int, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	GetTenantSnapshot(ctx context.Context, id string) (tenant.Snapshot, error)
	TenantStats(ctx context.Context, id string) (tenant.Stats, error)

	// Per-tenant resource counts (quota reads)
	CountUsers(ctx context.Context, tenantID string) (int, error)
	CountProjects(ctx context.Context, tenantID string) (int, error)

	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email, tenantID string) (*user.User, error)
	ListUsers(ctx context.Context, tenantID string, f user.ListFilter) ([]user.User, int, error)
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error

	// Projects
	CreateProject(ctx context.Context, p *project.Project) error
	GetProject(ctx context.Context, id string) (*project.Project, error)
	ListProjects(ctx context.Context, tenantID string, f project.ListFilter) ([]project.Project, int, error)
	UpdateProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Tasks
	CreateTask(ctx context.Context, t *task.Task) error
	GetTask(ctx context.Context, id string) (*task.Task, error)
	ListTasks(ctx context.Context, projectID string, f task.ListFilter) ([]task.Task, int, error)
	UpdateTask(ctx context.Context, t *task.Task) error
}
