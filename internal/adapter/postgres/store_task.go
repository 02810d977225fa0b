package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/taskhive/taskhive/internal/domain/task"
)

const taskColumns = `id, project_id, tenant_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at`

func scanTask(row scannable) (*task.Task, error) {
	var t task.Task
	var assignedTo *string
	var dueDate *time.Time
	err := row.Scan(&t.ID, &t.ProjectID, &t.TenantID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &assignedTo, &dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if assignedTo != nil {
		t.AssignedTo = *assignedTo
	}
	t.DueDate = dueDate
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, project_id, tenant_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.ProjectID, t.TenantID, t.Title, t.Description, t.Status,
		t.Priority, nullIfEmpty(t.AssignedTo), t.DueDate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get task %s", id)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, projectID string, f task.ListFilter) ([]task.Task, int, error) {
	limit, offset := pageBounds(f.Page, f.Limit)
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+`, count(*) OVER() AS total
		 FROM tasks
		 WHERE project_id = $1
		   AND ($2 = '' OR status = $2)
		   AND ($3 = '' OR priority = $3)
		   AND ($4 = '' OR assigned_to::text = $4)
		   AND ($5 = '' OR title ILIKE '%' || $5 || '%')
		 ORDER BY created_at DESC
		 LIMIT $6 OFFSET $7`,
		projectID, string(f.Status), string(f.Priority), f.AssignedTo, f.Search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	var total int
	for rows.Next() {
		var t task.Task
		var assignedTo *string
		var dueDate *time.Time
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.TenantID, &t.Title, &t.Description,
			&t.Status, &t.Priority, &assignedTo, &dueDate, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		if assignedTo != nil {
			t.AssignedTo = *assignedTo
		}
		t.DueDate = dueDate
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, status = $4, priority = $5,
		     assigned_to = $6, due_date = $7, updated_at = $8
		 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Status, t.Priority,
		nullIfEmpty(t.AssignedTo), t.DueDate, t.UpdatedAt)
	return execExpectOne(tag, err, "update task %s", t.ID)
}
