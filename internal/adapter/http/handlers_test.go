package http_test

import (
	"context"
	"strings"
	"sync"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/domain/project"
	"github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/domain/user"
	"github.com/taskhive/taskhive/internal/port/database"
)

// memStore is a minimal in-memory database.Store for router tests.
type memStore struct {
	mu       sync.Mutex
	tenants  map[string]*tenant.Tenant
	users    map[string]*user.User
	projects map[string]*project.Project
	tasks    map[string]*task.Task
	audits   []audit.Event
}

var _ database.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		tenants:  make(map[string]*tenant.Tenant),
		users:    make(map[string]*user.User),
		projects: make(map[string]*project.Project),
		tasks:    make(map[string]*task.Task),
	}
}

func (m *memStore) Record(_ context.Context, ev audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, ev)
	return nil
}

func (m *memStore) CreateTenantWithAdmin(_ context.Context, t *tenant.Tenant, admin *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.tenants {
		if e.Subdomain == t.Subdomain {
			return domain.ErrConflict
		}
	}
	tc, uc := *t, *admin
	m.tenants[t.ID] = &tc
	m.users[admin.ID] = &uc
	return nil
}

func (m *memStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) GetTenantBySubdomain(_ context.Context, sub string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Subdomain == sub {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListTenants(_ context.Context, _ tenant.ListFilter) ([]tenant.Tenant, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range m.tenants {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *memStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *memStore) GetTenantSnapshot(_ context.Context, id string) (tenant.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return tenant.Snapshot{}, domain.ErrNotFound
	}
	return tenant.Snapshot{Limits: t.Limits, Status: t.Status}, nil
}

func (m *memStore) TenantStats(_ context.Context, id string) (tenant.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st tenant.Stats
	for _, u := range m.users {
		if u.TenantID == id {
			st.TotalUsers++
		}
	}
	for _, p := range m.projects {
		if p.TenantID == id {
			st.TotalProjects++
		}
	}
	for _, t := range m.tasks {
		if t.TenantID == id {
			st.TotalTasks++
		}
	}
	return st, nil
}

func (m *memStore) CountUsers(_ context.Context, tenantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountProjects(_ context.Context, tenantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.projects {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.TenantID == u.TenantID && e.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email, tenantID string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.TenantID == tenantID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, tenantID string, f user.ListFilter) ([]user.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for _, u := range m.users {
		if u.TenantID != tenantID {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Email, f.Search) {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memStore) UpdateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	for _, t := range m.tasks {
		if t.AssignedTo == id {
			t.AssignedTo = ""
		}
	}
	return nil
}

func (m *memStore) CreateProject(_ context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memStore) GetProject(_ context.Context, id string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListProjects(_ context.Context, tenantID string, _ project.ListFilter) ([]project.Project, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []project.Project
	for _, p := range m.projects {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *memStore) UpdateProject(_ context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memStore) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.projects, id)
	for tid, t := range m.tasks {
		if t.ProjectID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

func (m *memStore) CreateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListTasks(_ context.Context, projectID string, _ task.ListFilter) ([]task.Task, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []task.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, len(out), nil
}

func (m *memStore) UpdateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}
