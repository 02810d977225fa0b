package postgres

import (
	"context"
	"fmt"

	"github.com/taskhive/taskhive/internal/domain/project"
)

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, tenant_id, name, description, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.Name, p.Description, p.Status,
		nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	var createdBy *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, description, status, created_by, created_at, updated_at
		 FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Status,
		&createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get project %s", id)
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}

// ListProjects returns a tenant's projects with task counts derived from
// the tasks table, never stored.
func (s *Store) ListProjects(ctx context.Context, tenantID string, f project.ListFilter) ([]project.Project, int, error) {
	limit, offset := pageBounds(f.Page, f.Limit)
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.tenant_id, p.name, p.description, p.status, p.created_by,
		        p.created_at, p.updated_at,
		        count(t.id) AS task_count,
		        count(t.id) FILTER (WHERE t.status = 'completed') AS completed_count,
		        count(*) OVER() AS total
		 FROM projects p
		 LEFT JOIN tasks t ON t.project_id = p.id
		 WHERE p.tenant_id = $1
		   AND ($2 = '' OR p.status = $2)
		   AND ($3 = '' OR p.name ILIKE '%' || $3 || '%')
		 GROUP BY p.id
		 ORDER BY p.created_at DESC
		 LIMIT $4 OFFSET $5`,
		tenantID, string(f.Status), f.Search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	var total int
	for rows.Next() {
		var p project.Project
		var createdBy *string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Status,
			&createdBy, &p.CreatedAt, &p.UpdatedAt,
			&p.TaskCount, &p.CompletedTaskCount, &total); err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		if createdBy != nil {
			p.CreatedBy = *createdBy
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects
		 SET name = $2, description = $3, status = $4, updated_at = $5
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Status, p.UpdatedAt)
	return execExpectOne(tag, err, "update project %s", p.ID)
}

// DeleteProject removes the project; its tasks go with it through the
// schema's ON DELETE CASCADE.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete project %s", id)
}
