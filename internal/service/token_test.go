package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens() *TokenService {
	return NewTokenService(&config.Auth{
		JWTSecret: testSecret,
		TokenTTL:  24 * time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTestTokens()
	now := time.Now()

	tok, err := ts.Issue("user-1", "tenant-1", user.RoleTenantAdmin, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	actor, err := ts.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if actor.ID != "user-1" {
		t.Errorf("actor ID = %q, want user-1", actor.ID)
	}
	if actor.TenantID != "tenant-1" {
		t.Errorf("actor TenantID = %q, want tenant-1", actor.TenantID)
	}
	if actor.Role != user.RoleTenantAdmin {
		t.Errorf("actor Role = %q, want tenant_admin", actor.Role)
	}
}

func TestTokenSuperAdminHasNoTenant(t *testing.T) {
	ts := newTestTokens()
	now := time.Now()

	tok, err := ts.Issue("admin-1", "", user.RoleSuperAdmin, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	actor, err := ts.Verify(tok, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if actor.TenantID != "" {
		t.Errorf("super_admin TenantID = %q, want empty", actor.TenantID)
	}
}

func TestTokenExpired(t *testing.T) {
	ts := newTestTokens()
	now := time.Now()

	tok, err := ts.Issue("user-1", "tenant-1", user.RoleUser, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(tok, now.Add(25*time.Hour)); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify after expiry = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	ts := newTestTokens()
	other := NewTokenService(&config.Auth{
		JWTSecret: "wrong-secret-wrong-secret-wrong!",
		TokenTTL:  24 * time.Hour,
	})
	now := time.Now()

	tok, err := other.Issue("user-1", "tenant-1", user.RoleUser, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(tok, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTampered(t *testing.T) {
	ts := newTestTokens()
	now := time.Now()

	tok, err := ts.Issue("user-1", "tenant-1", user.RoleUser, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := ts.Verify(tampered, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify tampered token = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	ts := newTestTokens()
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ts.Verify(raw, time.Now()); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestTokenTenantRoleRequiresTenant(t *testing.T) {
	ts := newTestTokens()
	now := time.Now()

	// A tenant-scoped role with no tenant claim must be rejected even
	// though the signature is valid.
	tok, err := ts.Issue("user-1", "", user.RoleUser, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(tok, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify tenant-less user token = %v, want ErrInvalidToken", err)
	}
}
