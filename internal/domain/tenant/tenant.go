// Package tenant defines the tenant domain model for multi-tenancy.
package tenant

import (
	"fmt"
	"net/mail"
	"regexp"
	"time"
)

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// ValidPlans is the set of all recognized subscription plans.
var ValidPlans = map[Plan]bool{
	PlanFree:       true,
	PlanPro:        true,
	PlanEnterprise: true,
}

// Status describes the tenant lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusTrial     Status = "trial"
)

// ValidStatuses is the set of all recognized tenant statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusSuspended: true,
	StatusTrial:     true,
}

// Limits holds the per-plan capacity caps for a tenant.
type Limits struct {
	MaxUsers    int `json:"max_users"`
	MaxProjects int `json:"max_projects"`
}

// planDefaults maps each plan to its default capacity limits.
var planDefaults = map[Plan]Limits{
	PlanFree:       {MaxUsers: 5, MaxProjects: 3},
	PlanPro:        {MaxUsers: 25, MaxProjects: 15},
	PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
}

// PlanDefaults returns the default limits for a plan. Unknown plans fall
// back to the free tier.
func PlanDefaults(p Plan) Limits {
	if l, ok := planDefaults[p]; ok {
		return l
	}
	return planDefaults[PlanFree]
}

// Tenant represents an isolated customer organization. All resources are
// partitioned by tenant; a tenant is never deleted, only suspended.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Plan      Plan      `json:"subscription_plan"`
	Status    Status    `json:"status"`
	Limits    Limits    `json:"limits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the tenant may perform creations. Trial tenants
// are treated as active; only suspension blocks activity.
func (t *Tenant) Active() bool {
	return t.Status == StatusActive || t.Status == StatusTrial
}

// Snapshot is the subset of tenant state the quota enforcer consults on
// every reservation: the static limits plus lifecycle status.
type Snapshot struct {
	Limits Limits
	Status Status
}

// Stats aggregates current per-tenant resource counts for reporting.
// Counts are derived, never stored.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalProjects int `json:"total_projects"`
	TotalTasks    int `json:"total_tasks"`
}

// UpdateRequest holds the fields that can change on a tenant. Name is open
// to tenant admins; Status, Plan, and explicit limit overrides are
// billing-level changes restricted to the platform operator.
type UpdateRequest struct {
	Name        string `json:"name,omitempty"`
	Status      Status `json:"status,omitempty"`
	Plan        Plan   `json:"subscription_plan,omitempty"`
	MaxUsers    *int   `json:"max_users,omitempty"`
	MaxProjects *int   `json:"max_projects,omitempty"`
}

// Billing reports whether the request touches billing-level fields.
func (r *UpdateRequest) Billing() bool {
	return r.Status != "" || r.Plan != "" || r.MaxUsers != nil || r.MaxProjects != nil
}

var subdomainRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

// RegisterRequest holds the input for self-service tenant registration:
// the tenant itself plus its first admin account, created atomically.
type RegisterRequest struct {
	TenantName    string `json:"tenant_name"`
	Subdomain     string `json:"subdomain"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminFullName string `json:"admin_full_name"`
}

// Validate checks required fields and normalizes nothing; the subdomain
// must already be a lowercase DNS-safe slug.
func (r *RegisterRequest) Validate() error {
	if r.TenantName == "" {
		return fmt.Errorf("tenant_name is required")
	}
	if !subdomainRegex.MatchString(r.Subdomain) {
		return fmt.Errorf("subdomain must be a lowercase slug of 3-64 characters")
	}
	if _, err := mail.ParseAddress(r.AdminEmail); err != nil {
		return fmt.Errorf("admin_email is invalid")
	}
	if len(r.AdminPassword) < 8 {
		return fmt.Errorf("admin_password must be at least 8 characters")
	}
	if r.AdminFullName == "" {
		return fmt.Errorf("admin_full_name is required")
	}
	return nil
}

// ListFilter narrows tenant listings.
type ListFilter struct {
	Status Status
	Plan   Plan
	Page   int
	Limit  int
}
