// Package project defines the project domain model.
package project

import (
	"errors"
	"time"
)

// Status describes a project lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

// ValidStatuses is the set of all recognized project statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusArchived:  true,
	StatusCompleted: true,
}

// Project belongs to exactly one tenant. TenantID is immutable after
// creation.
type Project struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived task counts, populated on listings.
	TaskCount          int `json:"task_count"`
	CompletedTaskCount int `json:"completed_task_count"`
}

// CreateRequest is the input for creating a project.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status,omitempty"`
}

// Validate checks the CreateRequest and applies the default status.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	if !ValidStatuses[r.Status] {
		return errors.New("invalid status: must be active, archived, or completed")
	}
	return nil
}

// UpdateRequest is the input for updating a project.
type UpdateRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      Status  `json:"status,omitempty"`
}

// Validate checks the UpdateRequest.
func (r *UpdateRequest) Validate() error {
	if r.Status != "" && !ValidStatuses[r.Status] {
		return errors.New("invalid status: must be active, archived, or completed")
	}
	return nil
}

// ListFilter narrows project listings.
type ListFilter struct {
	Status Status
	Search string
	Page   int
	Limit  int
}
