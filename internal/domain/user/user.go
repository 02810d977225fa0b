// Package user defines the user domain model for authentication and
// authorization.
package user

import (
	"errors"
	"net/mail"
	"time"
)

// Role represents the authorization level of a user.
type Role string

const (
	// RoleSuperAdmin is the platform operator. It is tenant-less and
	// globally scoped; it is the only role with a null tenant affiliation.
	RoleSuperAdmin Role = "super_admin"
	// RoleTenantAdmin administers a single tenant.
	RoleTenantAdmin Role = "tenant_admin"
	// RoleUser is a self-scoped member of a tenant.
	RoleUser Role = "user"
)

// ValidRoles is the set of all valid user roles.
var ValidRoles = map[Role]bool{
	RoleSuperAdmin:  true,
	RoleTenantAdmin: true,
	RoleUser:        true,
}

// TenantRoles are the roles assignable within a tenant. super_admin is
// excluded: it is created out-of-band and never through tenant user
// management.
var TenantRoles = map[Role]bool{
	RoleTenantAdmin: true,
	RoleUser:        true,
}

// User represents a registered user. TenantID is empty only for
// super_admin; every other user has exactly one tenant affiliation, fixed
// for the lifetime of the account.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest is the input for adding a user to a tenant.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	FullName string `json:"full_name"`
	Role     Role   `json:"role,omitempty"`
}

// Validate checks the CreateRequest and applies the default role.
func (r *CreateRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email format")
	}
	if r.FullName == "" {
		return errors.New("full_name is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role == "" {
		r.Role = RoleUser
	}
	if !TenantRoles[r.Role] {
		return errors.New("invalid role: must be tenant_admin or user")
	}
	return nil
}

// UpdateRequest is the input for updating an existing user. FullName may be
// changed by the user themselves; Role and Active are privileged fields.
type UpdateRequest struct {
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Active   *bool  `json:"is_active,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateRequest) Empty() bool {
	return r.FullName == "" && r.Role == "" && r.Active == nil
}

// Privileged reports whether the request touches role or active-flag
// fields, which a user may never change on themselves.
func (r *UpdateRequest) Privileged() bool {
	return r.Role != "" || r.Active != nil
}

// LoginRequest is the input for password authentication. Exactly one of
// TenantSubdomain or TenantID may be set; with neither, only a tenant-less
// super_admin account can match.
type LoginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	TenantSubdomain string `json:"tenant_subdomain,omitempty"`
	TenantID        string `json:"tenant_id,omitempty"`
}

// Validate checks the LoginRequest.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if r.TenantSubdomain != "" && r.TenantID != "" {
		return errors.New("provide tenant_subdomain or tenant_id, not both")
	}
	return nil
}

// LoginResponse carries a freshly issued token and its owner.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
	User      *User  `json:"user"`
}

// ListFilter narrows user listings.
type ListFilter struct {
	Search string
	Role   Role
	Page   int
	Limit  int
}
