// Package access defines the authorization decision table: a pure, total
// mapping from (role, action, target relation) to an allow/deny decision.
// It has no dependencies beyond the user role type and performs no I/O, so
// every decision is reproducible from its inputs alone.
package access

import "github.com/taskhive/taskhive/internal/domain/user"

// Actor is the authenticated principal derived from a verified token.
// TenantID is empty only for super_admin. The values are a snapshot taken
// at token issuance: role or tenant changes after issuance are not visible
// until the token expires or is reissued.
type Actor struct {
	ID       string
	TenantID string
	Role     user.Role
}

// Action enumerates every operation subject to authorization. Adding a
// resource type means adding actions here, which forces an explicit
// decision for every role in Decide — there is no implicit allow.
type Action string

const (
	ActionReadTenant          Action = "read_tenant"
	ActionWriteTenantSettings Action = "write_tenant_settings"
	ActionWriteTenantBilling  Action = "write_tenant_billing"
	ActionCreateUser          Action = "create_user"
	ActionReadUser            Action = "read_user"
	ActionWriteUserSelf       Action = "write_user_self"
	ActionWriteUserOther      Action = "write_user_other"
	ActionDeleteUser          Action = "delete_user"
	ActionCreateProject       Action = "create_project"
	ActionReadProject         Action = "read_project"
	ActionWriteProject        Action = "write_project"
	ActionDeleteProject       Action = "delete_project"
	ActionCreateTask          Action = "create_task"
	ActionReadTask            Action = "read_task"
	ActionWriteTask           Action = "write_task"
	ActionChangeTaskStatus    Action = "change_task_status"
)

// Actions lists every action, in declaration order. Used by the totality
// test to prove every (role, action) pair has exactly one outcome.
var Actions = []Action{
	ActionReadTenant,
	ActionWriteTenantSettings,
	ActionWriteTenantBilling,
	ActionCreateUser,
	ActionReadUser,
	ActionWriteUserSelf,
	ActionWriteUserOther,
	ActionDeleteUser,
	ActionCreateProject,
	ActionReadProject,
	ActionWriteProject,
	ActionDeleteProject,
	ActionCreateTask,
	ActionReadTask,
	ActionWriteTask,
	ActionChangeTaskStatus,
}

// Roles lists every role the matrix covers.
var Roles = []user.Role{user.RoleSuperAdmin, user.RoleTenantAdmin, user.RoleUser}

// Target identifies what an action operates on. TenantID is the tenant the
// resource belongs to. ID is the owner or subject id where relevant (the
// user being written or deleted). Elevated marks a self-directed user write
// that touches role or active-flag fields.
type Target struct {
	TenantID string
	ID       string
	Elevated bool
}

// Deny reason codes. Coarse by design; they classify the rule that fired,
// never the state of the target resource.
const (
	ReasonCrossTenant             = "cross-tenant"
	ReasonRequiresSuperAdmin      = "requires-super-admin"
	ReasonInsufficientRole        = "insufficient-role"
	ReasonSelfPrivilegeEscalation = "self-privilege-escalation"
	ReasonCannotDeleteSelf        = "cannot-delete-self"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the single allowing decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny builds a denying decision with the given reason code.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// readActions are allowed to every role within its own tenant.
var readActions = map[Action]bool{
	ActionReadTenant:  true,
	ActionReadUser:    true,
	ActionReadProject: true,
	ActionReadTask:    true,
}

// Decide evaluates the decision table. Rules are checked in precedence
// order and the first match wins:
//
//  1. Self-deletion is blocked for every role, super_admin included.
//  2. super_admin is the platform operator and passes every other check.
//     Quota limits are NOT waived here; they are enforced separately.
//  3. Tenant mismatch denies everything for tenant-scoped roles.
//  4. Self-directed user writes touching role or active-flag fields are a
//     privilege escalation for any tenant-scoped role.
//  5. tenant_admin may do everything within its tenant except billing-level
//     tenant changes (status, plan, limits).
//  6. user may read within its tenant, rename itself, and move tasks
//     through their workflow. Everything else is denied.
func Decide(actor *Actor, action Action, target Target) Decision {
	if action == ActionDeleteUser && target.ID != "" && target.ID == actor.ID {
		return Deny(ReasonCannotDeleteSelf)
	}

	if actor.Role == user.RoleSuperAdmin {
		return Allow()
	}

	if actor.TenantID == "" || actor.TenantID != target.TenantID {
		return Deny(ReasonCrossTenant)
	}

	if action == ActionWriteUserSelf && target.Elevated {
		return Deny(ReasonSelfPrivilegeEscalation)
	}

	switch actor.Role {
	case user.RoleTenantAdmin:
		if action == ActionWriteTenantBilling {
			return Deny(ReasonRequiresSuperAdmin)
		}
		return Allow()

	case user.RoleUser:
		switch {
		case readActions[action]:
			return Allow()
		case action == ActionWriteUserSelf:
			return Allow()
		case action == ActionChangeTaskStatus:
			return Allow()
		default:
			return Deny(ReasonInsufficientRole)
		}
	}

	// Unknown role: fail closed.
	return Deny(ReasonInsufficientRole)
}
