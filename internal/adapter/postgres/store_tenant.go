package postgres

import (
	"context"
	"fmt"

	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/domain/user"
)

const tenantColumns = `id, name, subdomain, plan, status, max_users, max_projects, created_at, updated_at`

func scanTenant(row scannable) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Plan, &t.Status,
		&t.Limits.MaxUsers, &t.Limits.MaxProjects, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTenantWithAdmin inserts the tenant and its first admin in one
// transaction: registration never leaves an admin-less tenant behind.
func (s *Store) CreateTenantWithAdmin(ctx context.Context, t *tenant.Tenant, admin *user.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO tenants (id, name, subdomain, plan, status, max_users, max_projects, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Name, t.Subdomain, t.Plan, t.Status,
		t.Limits.MaxUsers, t.Limits.MaxProjects, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return conflictWrap(err, "create tenant %s", t.Subdomain)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		admin.ID, admin.TenantID, admin.Email, admin.PasswordHash,
		admin.FullName, admin.Role, admin.Active, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return conflictWrap(err, "create tenant admin %s", admin.Email)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant %s", id)
	}
	return t, nil
}

func (s *Store) GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE subdomain = $1`, subdomain))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant by subdomain %s", subdomain)
	}
	return t, nil
}

func (s *Store) ListTenants(ctx context.Context, f tenant.ListFilter) ([]tenant.Tenant, int, error) {
	limit, offset := pageBounds(f.Page, f.Limit)
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+`, count(*) OVER() AS total
		 FROM tenants
		 WHERE ($1 = '' OR status = $1) AND ($2 = '' OR plan = $2)
		 ORDER BY created_at ASC
		 LIMIT $3 OFFSET $4`,
		string(f.Status), string(f.Plan), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	var total int
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Plan, &t.Status,
			&t.Limits.MaxUsers, &t.Limits.MaxProjects, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, total, rows.Err()
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants
		 SET name = $2, plan = $3, status = $4, max_users = $5, max_projects = $6, updated_at = $7
		 WHERE id = $1`,
		t.ID, t.Name, t.Plan, t.Status, t.Limits.MaxUsers, t.Limits.MaxProjects, t.UpdatedAt)
	return execExpectOne(tag, err, "update tenant %s", t.ID)
}

func (s *Store) GetTenantSnapshot(ctx context.Context, id string) (tenant.Snapshot, error) {
	var snap tenant.Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT max_users, max_projects, status FROM tenants WHERE id = $1`, id,
	).Scan(&snap.Limits.MaxUsers, &snap.Limits.MaxProjects, &snap.Status)
	if err != nil {
		return tenant.Snapshot{}, notFoundWrap(err, "get tenant snapshot %s", id)
	}
	return snap, nil
}

func (s *Store) TenantStats(ctx context.Context, id string) (tenant.Stats, error) {
	var st tenant.Stats
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM users    WHERE tenant_id = $1),
		   (SELECT count(*) FROM projects WHERE tenant_id = $1),
		   (SELECT count(*) FROM tasks    WHERE tenant_id = $1)`,
		id,
	).Scan(&st.TotalUsers, &st.TotalProjects, &st.TotalTasks)
	if err != nil {
		return tenant.Stats{}, fmt.Errorf("tenant stats %s: %w", id, err)
	}
	return st, nil
}

func (s *Store) CountUsers(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users %s: %w", tenantID, err)
	}
	return n, nil
}

func (s *Store) CountProjects(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM projects WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count projects %s: %w", tenantID, err)
	}
	return n, nil
}
