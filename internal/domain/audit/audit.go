// Package audit defines the audit event model. Events are recorded through
// a best-effort sink: failures are logged locally and never surfaced to the
// operation that produced them.
package audit

import "time"

// Recorded actions.
const (
	ActionRegisterTenant   = "REGISTER_TENANT"
	ActionLogin            = "LOGIN"
	ActionLogout           = "LOGOUT"
	ActionUpdateTenant     = "UPDATE_TENANT"
	ActionCreateUser       = "CREATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionCreateProject    = "CREATE_PROJECT"
	ActionUpdateProject    = "UPDATE_PROJECT"
	ActionDeleteProject    = "DELETE_PROJECT"
	ActionCreateTask       = "CREATE_TASK"
	ActionUpdateTask       = "UPDATE_TASK"
	ActionUpdateTaskStatus = "UPDATE_TASK_STATUS"
)

// Event is one completed authorization decision that resulted in a state
// change. TenantID and ActorID are empty for platform-level events.
type Event struct {
	TenantID   string    `json:"tenant_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	SourceAddr string    `json:"source_addr,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
