package service

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
	"github.com/taskhive/taskhive/internal/port/auditlog"
	"github.com/taskhive/taskhive/internal/port/database"
)

// mockStore is an in-memory Store for service tests. Error hooks let
// individual tests inject failures on specific operations.
type mockStore struct {
	mu       sync.Mutex
	tenants  map[string]*tenant.Tenant
	users    map[string]*user.User
	projects map[string]*project.Project
	tasks    map[string]*task.Task

	snapshotErr      error
	countErr         error
	createUserErr    error
	createProjectErr error
	updateErr        error

	// countHook runs inside CountUsers/CountProjects while the caller
	// holds no store lock, to widen timing windows in concurrency tests.
	countHook func()
}

var _ database.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		tenants:  make(map[string]*tenant.Tenant),
		users:    make(map[string]*user.User),
		projects: make(map[string]*project.Project),
		tasks:    make(map[string]*task.Task),
	}
}

func (m *mockStore) addTenant(t *tenant.Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tenants[t.ID] = &cp
}

func (m *mockStore) addUser(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

func (m *mockStore) addProject(p *project.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.projects[p.ID] = &cp
}

func (m *mockStore) addTask(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
}

func (m *mockStore) CreateTenantWithAdmin(_ context.Context, t *tenant.Tenant, admin *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tenants {
		if existing.Subdomain == t.Subdomain {
			return domain.ErrConflict
		}
	}
	tc, uc := *t, *admin
	m.tenants[t.ID] = &tc
	m.users[admin.ID] = &uc
	return nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) GetTenantBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Subdomain == subdomain {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListTenants(_ context.Context, f tenant.ListFilter) ([]tenant.Tenant, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range m.tenants {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Plan != "" && t.Plan != f.Plan {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *mockStore) GetTenantSnapshot(_ context.Context, id string) (tenant.Snapshot, error) {
	if m.snapshotErr != nil {
		return tenant.Snapshot{}, m.snapshotErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return tenant.Snapshot{}, domain.ErrNotFound
	}
	return tenant.Snapshot{Limits: t.Limits, Status: t.Status}, nil
}

func (m *mockStore) TenantStats(_ context.Context, id string) (tenant.Stats, error) {
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

func (m *mockStore) CountUsers(_ context.Context, tenantID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.countHook != nil {
		m.countHook()
	}
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

func (m *mockStore) CountProjects(_ context.Context, tenantID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.countHook != nil {
		m.countHook()
	}
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

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email, tenantID string) (*user.User, error) {
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

func (m *mockStore) ListUsers(_ context.Context, tenantID string, f user.ListFilter) ([]user.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for _, u := range m.users {
		if u.TenantID != tenantID {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Email, f.Search) && !strings.Contains(u.FullName, f.Search) {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockStore) DeleteUser(_ context.Context, id string) error {
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

func (m *mockStore) CreateProject(_ context.Context, p *project.Project) error {
	if m.createProjectErr != nil {
		return m.createProjectErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockStore) ListProjects(_ context.Context, tenantID string, f project.ListFilter) ([]project.Project, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []project.Project
	for _, p := range m.projects {
		if p.TenantID != tenantID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(p.Name, f.Search) {
			continue
		}
		cp := *p
		for _, t := range m.tasks {
			if t.ProjectID == p.ID {
				cp.TaskCount++
				if t.Status == task.StatusCompleted {
					cp.CompletedTaskCount++
				}
			}
		}
		out = append(out, cp)
	}
	return out, len(out), nil
}

func (m *mockStore) UpdateProject(_ context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *mockStore) DeleteProject(_ context.Context, id string) error {
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

func (m *mockStore) CreateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) ListTasks(_ context.Context, projectID string, f task.ListFilter) ([]task.Task, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []task.Task
	for _, t := range m.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Search != "" && !strings.Contains(t.Title, f.Search) {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

// mockSink records audit events in memory.
type mockSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

var _ auditlog.Sink = (*mockSink)(nil)

func (m *mockSink) Record(_ context.Context, ev audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *mockSink) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Action)
	}
	return out
}
