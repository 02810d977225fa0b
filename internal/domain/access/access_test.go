package access

import (
	"testing"

	"github.com/taskhive/taskhive/internal/domain/user"
)

func actor(role user.Role, tenantID string) *Actor {
	return &Actor{ID: "actor-1", TenantID: tenantID, Role: role}
}

func TestDecide_Totality(t *testing.T) {
	// Every (role, action) pair must produce exactly one outcome: either
	// Allowed with no reason, or a deny with a non-empty reason.
	for _, role := range Roles {
		tid := "tenant-1"
		if role == user.RoleSuperAdmin {
			tid = ""
		}
		a := actor(role, tid)
		for _, action := range Actions {
			d := Decide(a, action, Target{TenantID: "tenant-1", ID: "other"})
			if d.Allowed && d.Reason != "" {
				t.Errorf("%s/%s: allowed decision carries reason %q", role, action, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Errorf("%s/%s: denied decision has no reason", role, action)
			}
		}
	}
}

func TestDecide_SuperAdmin(t *testing.T) {
	a := actor(user.RoleSuperAdmin, "")
	for _, action := range Actions {
		if action == ActionDeleteUser {
			continue // covered by self-deletion test
		}
		d := Decide(a, action, Target{TenantID: "any-tenant", ID: "other"})
		if !d.Allowed {
			t.Errorf("super_admin denied %s: %s", action, d.Reason)
		}
	}
}

func TestDecide_TenantIsolation(t *testing.T) {
	for _, role := range []user.Role{user.RoleTenantAdmin, user.RoleUser} {
		a := actor(role, "tenant-1")
		for _, action := range Actions {
			d := Decide(a, action, Target{TenantID: "tenant-2", ID: "other"})
			if d.Allowed {
				t.Errorf("%s allowed cross-tenant %s", role, action)
			}
			if d.Reason != ReasonCrossTenant {
				t.Errorf("%s/%s: reason = %q, want %q", role, action, d.Reason, ReasonCrossTenant)
			}
		}
	}
}

func TestDecide_SelfDeletionBlockedForEveryRole(t *testing.T) {
	for _, role := range Roles {
		tid := "tenant-1"
		if role == user.RoleSuperAdmin {
			tid = ""
		}
		a := actor(role, tid)
		d := Decide(a, ActionDeleteUser, Target{TenantID: tid, ID: a.ID})
		if d.Allowed {
			t.Errorf("%s allowed to delete itself", role)
		}
		if d.Reason != ReasonCannotDeleteSelf {
			t.Errorf("%s: reason = %q, want %q", role, d.Reason, ReasonCannotDeleteSelf)
		}
	}
}

func TestDecide_TenantAdmin(t *testing.T) {
	a := actor(user.RoleTenantAdmin, "tenant-1")
	own := Target{TenantID: "tenant-1", ID: "other"}

	if d := Decide(a, ActionWriteTenantBilling, own); d.Allowed || d.Reason != ReasonRequiresSuperAdmin {
		t.Errorf("billing write: got %+v, want deny %q", d, ReasonRequiresSuperAdmin)
	}

	for _, action := range []Action{
		ActionReadTenant, ActionWriteTenantSettings,
		ActionCreateUser, ActionReadUser, ActionWriteUserOther, ActionDeleteUser,
		ActionCreateProject, ActionReadProject, ActionWriteProject, ActionDeleteProject,
		ActionCreateTask, ActionReadTask, ActionWriteTask, ActionChangeTaskStatus,
	} {
		if d := Decide(a, action, own); !d.Allowed {
			t.Errorf("tenant_admin denied %s in own tenant: %s", action, d.Reason)
		}
	}
}

func TestDecide_User(t *testing.T) {
	a := actor(user.RoleUser, "tenant-1")
	own := Target{TenantID: "tenant-1", ID: "other"}

	allowed := []Action{
		ActionReadTenant, ActionReadUser, ActionReadProject, ActionReadTask,
		ActionChangeTaskStatus,
	}
	for _, action := range allowed {
		if d := Decide(a, action, own); !d.Allowed {
			t.Errorf("user denied %s in own tenant: %s", action, d.Reason)
		}
	}

	denied := []Action{
		ActionWriteTenantSettings, ActionWriteTenantBilling,
		ActionCreateUser, ActionWriteUserOther, ActionDeleteUser,
		ActionCreateProject, ActionWriteProject, ActionDeleteProject,
		ActionCreateTask, ActionWriteTask,
	}
	for _, action := range denied {
		d := Decide(a, action, own)
		if d.Allowed {
			t.Errorf("user allowed %s", action)
			continue
		}
		if d.Reason != ReasonInsufficientRole {
			t.Errorf("user/%s: reason = %q, want %q", action, d.Reason, ReasonInsufficientRole)
		}
	}
}

func TestDecide_SelfWrite(t *testing.T) {
	a := actor(user.RoleUser, "tenant-1")

	// Renaming yourself is allowed.
	d := Decide(a, ActionWriteUserSelf, Target{TenantID: "tenant-1", ID: a.ID})
	if !d.Allowed {
		t.Fatalf("self rename denied: %s", d.Reason)
	}

	// Changing your own role or active flag is an escalation, for
	// tenant_admin as well as user.
	for _, role := range []user.Role{user.RoleUser, user.RoleTenantAdmin} {
		a := actor(role, "tenant-1")
		d := Decide(a, ActionWriteUserSelf, Target{TenantID: "tenant-1", ID: a.ID, Elevated: true})
		if d.Allowed {
			t.Errorf("%s allowed self privilege change", role)
			continue
		}
		if d.Reason != ReasonSelfPrivilegeEscalation {
			t.Errorf("%s: reason = %q, want %q", role, d.Reason, ReasonSelfPrivilegeEscalation)
		}
	}
}
