package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/domain/user"
	"github.com/taskhive/taskhive/internal/port/database"
)

// UserService manages user accounts within a tenant.
type UserService struct {
	store  database.Store
	access *AccessController
	cost   int
	clock  func() time.Time
}

// NewUserService builds the UserService. cost is the bcrypt work factor
// for new passwords.
func NewUserService(store database.Store, ac *AccessController, cost int) *UserService {
	return &UserService{store: store, access: ac, cost: cost, clock: time.Now}
}

// Create adds a user to a tenant, consuming one unit of user quota. The
// quota is reserved before the insert and released if the insert fails,
// so concurrent creations cannot overshoot the plan limit.
func (s *UserService) Create(ctx context.Context, actor *access.Actor, tenantID string, req *user.CreateRequest, sourceAddr string) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	res, err := s.access.AuthorizeCreate(ctx, actor, access.ActionCreateUser,
		access.Target{TenantID: tenantID}, QuotaUsers)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	u := &user.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		res.Release()
		return nil, fmt.Errorf("create user: %w", err)
	}
	res.Commit()

	s.access.Audit(ctx, audit.Event{
		TenantID:   tenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionCreateUser,
		EntityType: "user",
		EntityID:   u.ID,
		SourceAddr: sourceAddr,
	})
	return u, nil
}

// Get returns a user by ID. A user in another tenant is indistinguishable
// from a user that does not exist.
func (s *UserService) Get(ctx context.Context, actor *access.Actor, id string) (*user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionReadUser,
		access.Target{TenantID: u.TenantID, ID: u.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns the users of one tenant.
func (s *UserService) List(ctx context.Context, actor *access.Actor, tenantID string, f user.ListFilter) ([]user.User, int, error) {
	if err := s.access.Authorize(actor, access.ActionReadUser,
		access.Target{TenantID: tenantID}); err != nil {
		return nil, 0, err
	}
	items, total, err := s.store.ListUsers(ctx, tenantID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return items, total, nil
}

// Update modifies a user. Writing your own record and writing someone
// else's are distinct actions; a self-write that touches role or the
// active flag is marked elevated and denied for tenant-scoped roles.
func (s *UserService) Update(ctx context.Context, actor *access.Actor, id string, req *user.UpdateRequest, sourceAddr string) (*user.User, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if req.Role != "" && !user.TenantRoles[req.Role] {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, req.Role)
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	action := access.ActionWriteUserOther
	target := access.Target{TenantID: u.TenantID, ID: u.ID}
	if actor.ID == u.ID {
		action = access.ActionWriteUserSelf
		target.Elevated = req.Privileged()
	}
	if err := s.access.Authorize(actor, action, target); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	u.UpdatedAt = s.clock()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   u.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionUpdateUser,
		EntityType: "user",
		EntityID:   u.ID,
		SourceAddr: sourceAddr,
	})
	return u, nil
}

// Delete removes a user. No role, super_admin included, may delete its
// own account; the matrix enforces that before anything else. Task
// assignments held by the user are detached, not deleted, inside the
// same transaction.
func (s *UserService) Delete(ctx context.Context, actor *access.Actor, id string, sourceAddr string) error {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := s.access.Authorize(actor, access.ActionDeleteUser,
		access.Target{TenantID: u.TenantID, ID: u.ID}); err != nil {
		var fe *domain.ForbiddenError
		if errors.As(err, &fe) && fe.Reason == access.ReasonCrossTenant {
			return domain.ErrNotFound
		}
		return err
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   u.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionDeleteUser,
		EntityType: "user",
		EntityID:   u.ID,
		SourceAddr: sourceAddr,
	})
	return nil
}
