// Package task defines the task domain model.
package task

import (
	"errors"
	"time"
)

// Status describes the task workflow state.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses is the set of all recognized task statuses.
var ValidStatuses = map[Status]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// Priority orders tasks within a project.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities is the set of all recognized task priorities.
var ValidPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Task belongs to exactly one project and, transitively, one tenant.
// TenantID is denormalized from the project and immutable after creation.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	TenantID    string     `json:"tenant_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateRequest is the input for creating a task within a project.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks the CreateRequest and applies defaults.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !ValidPriorities[r.Priority] {
		return errors.New("invalid priority: must be low, medium, or high")
	}
	return nil
}

// UpdateRequest is the input for updating a task.
type UpdateRequest struct {
	Title       string     `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks the UpdateRequest.
func (r *UpdateRequest) Validate() error {
	if r.Status != "" && !ValidStatuses[r.Status] {
		return errors.New("invalid status: must be todo, in_progress, or completed")
	}
	if r.Priority != "" && !ValidPriorities[r.Priority] {
		return errors.New("invalid priority: must be low, medium, or high")
	}
	return nil
}

// ListFilter narrows task listings within a project.
type ListFilter struct {
	Status     Status
	AssignedTo string
	Priority   Priority
	Search     string
	Page       int
	Limit      int
}
