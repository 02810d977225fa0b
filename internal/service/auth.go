package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/domain/user"
	"github.com/taskhive/taskhive/internal/port/database"
)

// AuthService handles tenant self-registration, login, and the bootstrap
// super_admin account.
type AuthService struct {
	store  database.Store
	tokens *TokenService
	access *AccessController
	cost   int
	seed   struct {
		email    string
		password string
	}
	clock func() time.Time
}

// NewAuthService builds the AuthService.
func NewAuthService(store database.Store, tokens *TokenService, ac *AccessController, cfg *config.Auth) *AuthService {
	s := &AuthService{
		store:  store,
		tokens: tokens,
		access: ac,
		cost:   cfg.BcryptCost,
		clock:  time.Now,
	}
	s.seed.email = cfg.SeedAdminEmail
	s.seed.password = cfg.SeedAdminPassword
	return s
}

// RegisterTenant creates a tenant on the free plan together with its
// first tenant_admin, atomically. It is the one unauthenticated write in
// the system.
func (s *AuthService) RegisterTenant(ctx context.Context, req *tenant.RegisterRequest, sourceAddr string) (*tenant.Tenant, *user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	t := &tenant.Tenant{
		ID:        uuid.NewString(),
		Name:      req.TenantName,
		Subdomain: req.Subdomain,
		Plan:      tenant.PlanFree,
		Status:    tenant.StatusActive,
		Limits:    tenant.PlanDefaults(tenant.PlanFree),
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &user.User{
		ID:           uuid.NewString(),
		TenantID:     t.ID,
		Email:        req.AdminEmail,
		PasswordHash: string(hash),
		FullName:     req.AdminFullName,
		Role:         user.RoleTenantAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateTenantWithAdmin(ctx, t, admin); err != nil {
		return nil, nil, fmt.Errorf("register tenant: %w", err)
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   t.ID,
		ActorID:    admin.ID,
		Action:     audit.ActionRegisterTenant,
		EntityType: "tenant",
		EntityID:   t.ID,
		SourceAddr: sourceAddr,
	})
	return t, admin, nil
}

// Login authenticates an email and password within a tenant scope and
// issues a token. Every failure mode collapses to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest, sourceAddr string) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	tenantID, err := s.resolveTenant(ctx, req)
	if err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email, tenantID)
	if errors.Is(err, domain.ErrNotFound) && tenantID != "" {
		// A super_admin may log in through any tenant's login page.
		u, err = s.store.GetUserByEmail(ctx, req.Email, "")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !u.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID, u.TenantID, u.Role, s.clock())
	if err != nil {
		return nil, err
	}

	s.access.Audit(ctx, audit.Event{
		TenantID:   u.TenantID,
		ActorID:    u.ID,
		Action:     audit.ActionLogin,
		EntityType: "user",
		EntityID:   u.ID,
		SourceAddr: sourceAddr,
	})
	return &user.LoginResponse{
		Token:     tok,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      u,
	}, nil
}

// resolveTenant maps the request's tenant hint to a tenant ID. Suspended
// tenants refuse logins; trial tenants do not. An unknown subdomain is
// reported as invalid credentials so it cannot be used to probe for
// tenants.
func (s *AuthService) resolveTenant(ctx context.Context, req *user.LoginRequest) (string, error) {
	var (
		t   *tenant.Tenant
		err error
	)
	switch {
	case req.TenantSubdomain != "":
		t, err = s.store.GetTenantBySubdomain(ctx, req.TenantSubdomain)
	case req.TenantID != "":
		t, err = s.store.GetTenant(ctx, req.TenantID)
	default:
		return "", nil
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("resolve tenant: %w", err)
	}
	if !t.Active() {
		return "", domain.ErrTenantInactive
	}
	return t.ID, nil
}

// Me returns the authenticated actor's own account.
func (s *AuthService) Me(ctx context.Context, actor *access.Actor) (*user.User, error) {
	u, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return u, nil
}

// Logout records the logout for the audit trail. Tokens are stateless, so
// there is nothing to invalidate server-side; the client discards the
// token.
func (s *AuthService) Logout(ctx context.Context, actor *access.Actor, sourceAddr string) {
	s.access.Audit(ctx, audit.Event{
		TenantID:   actor.TenantID,
		ActorID:    actor.ID,
		Action:     audit.ActionLogout,
		EntityType: "user",
		EntityID:   actor.ID,
		SourceAddr: sourceAddr,
	})
}

// SeedSuperAdmin creates the bootstrap super_admin account if it does not
// already exist. Called from the -seed flag at startup, never through the
// API.
func (s *AuthService) SeedSuperAdmin(ctx context.Context) (*user.User, error) {
	if s.seed.email == "" || s.seed.password == "" {
		return nil, fmt.Errorf("%w: seed admin email and password must be configured", domain.ErrValidation)
	}

	existing, err := s.store.GetUserByEmail(ctx, s.seed.email, "")
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.seed.password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.clock()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        s.seed.email,
		PasswordHash: string(hash),
		FullName:     "Platform Administrator",
		Role:         user.RoleSuperAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create seed admin: %w", err)
	}
	return u, nil
}
