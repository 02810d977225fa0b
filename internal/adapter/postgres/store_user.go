package postgres

import (
	"context"
	"fmt"

	"github.com/taskhive/taskhive/internal/domain/user"
)

const userColumns = `id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at`

func scanUser(row scannable) (*user.User, error) {
	var u user.User
	var tenantID *string
	err := row.Scan(&u.ID, &tenantID, &u.Email, &u.PasswordHash,
		&u.FullName, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tenantID != nil {
		u.TenantID = *tenantID
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, nullIfEmpty(u.TenantID), u.Email, u.PasswordHash,
		u.FullName, u.Role, u.Active, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return conflictWrap(err, "create user %s", u.Email)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get user %s", id)
	}
	return u, nil
}

// GetUserByEmail resolves an email within one tenant. An empty tenantID
// matches the tenant-less super_admin rows.
func (s *Store) GetUserByEmail(ctx context.Context, email, tenantID string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email = $1 AND tenant_id IS NOT DISTINCT FROM $2`,
		email, nullIfEmpty(tenantID)))
	if err != nil {
		return nil, notFoundWrap(err, "get user by email")
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID string, f user.ListFilter) ([]user.User, int, error) {
	limit, offset := pageBounds(f.Page, f.Limit)
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+`, count(*) OVER() AS total
		 FROM users
		 WHERE tenant_id = $1
		   AND ($2 = '' OR role = $2)
		   AND ($3 = '' OR email ILIKE '%' || $3 || '%' OR full_name ILIKE '%' || $3 || '%')
		 ORDER BY created_at ASC
		 LIMIT $4 OFFSET $5`,
		tenantID, string(f.Role), f.Search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	var total int
	for rows.Next() {
		var u user.User
		var tid *string
		if err := rows.Scan(&u.ID, &tid, &u.Email, &u.PasswordHash, &u.FullName,
			&u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		if tid != nil {
			u.TenantID = *tid
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET full_name = $2, role = $3, is_active = $4, updated_at = $5
		 WHERE id = $1`,
		u.ID, u.FullName, u.Role, u.Active, u.UpdatedAt)
	return execExpectOne(tag, err, "update user %s", u.ID)
}

// DeleteUser removes the user and detaches their task assignments in one
// transaction, so tasks survive their assignee.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET assigned_to = NULL WHERE assigned_to = $1`, id); err != nil {
		return fmt.Errorf("detach task assignments: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err := execExpectOne(tag, err, "delete user %s", id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
