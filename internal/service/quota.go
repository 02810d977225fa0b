package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/tenant"
	"github.com/taskhive/taskhive/internal/port/database"
)

// QuotaKind names a tenant resource subject to plan limits.
type QuotaKind string

const (
	QuotaUsers    QuotaKind = "users"
	QuotaProjects QuotaKind = "projects"
)

type quotaKey struct {
	tenantID string
	kind     QuotaKind
}

// quotaSlot serializes reservations for one (tenant, kind) pair. pending
// counts reservations that have been granted but whose inserts have not
// yet landed in the store.
type quotaSlot struct {
	mu      sync.Mutex
	pending int
}

// QuotaEnforcer admits resource creations against per-tenant plan limits.
// The check and the admission happen under a per-(tenant, kind) lock, and
// in-flight reservations count against the limit, so concurrent creations
// can never overshoot it. Different kinds, and different tenants, never
// contend with each other.
type QuotaEnforcer struct {
	store database.Store

	mu    sync.Mutex
	slots map[quotaKey]*quotaSlot
}

// NewQuotaEnforcer builds a QuotaEnforcer backed by the given store.
func NewQuotaEnforcer(store database.Store) *QuotaEnforcer {
	return &QuotaEnforcer{
		store: store,
		slots: make(map[quotaKey]*quotaSlot),
	}
}

func (q *QuotaEnforcer) slot(tenantID string, kind QuotaKind) *quotaSlot {
	q.mu.Lock()
	defer q.mu.Unlock()
	key := quotaKey{tenantID: tenantID, kind: kind}
	s, ok := q.slots[key]
	if !ok {
		s = &quotaSlot{}
		q.slots[key] = s
	}
	return s
}

// Reserve admits one creation of the given kind for the tenant, or reports
// why it cannot proceed. On success the caller must settle the returned
// Reservation with Commit after the insert lands, or Release if it fails.
func (q *QuotaEnforcer) Reserve(ctx context.Context, tenantID string, kind QuotaKind) (*Reservation, error) {
	s := q.slot(tenantID, kind)
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := q.store.GetTenantSnapshot(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("load tenant snapshot: %w", err)
	}
	if snap.Status == tenant.StatusSuspended {
		return nil, domain.ErrTenantInactive
	}

	var count, limit int
	switch kind {
	case QuotaUsers:
		count, err = q.store.CountUsers(ctx, tenantID)
		limit = snap.Limits.MaxUsers
	case QuotaProjects:
		count, err = q.store.CountProjects(ctx, tenantID)
		limit = snap.Limits.MaxProjects
	default:
		return nil, fmt.Errorf("unknown quota kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", kind, err)
	}

	if count+s.pending >= limit {
		return nil, domain.ErrQuotaExceeded
	}
	s.pending++
	return &Reservation{slot: s}, nil
}

// Reservation is an admitted, not-yet-persisted creation. It must be
// settled exactly once; Commit and Release are idempotent and
// interchangeable once the first call lands.
type Reservation struct {
	slot *quotaSlot
	once sync.Once
}

func (r *Reservation) settle() {
	r.once.Do(func() {
		r.slot.mu.Lock()
		r.slot.pending--
		r.slot.mu.Unlock()
	})
}

// Commit settles the reservation after the insert succeeded. The row is
// now visible to counts, so the pending slot is no longer needed.
func (r *Reservation) Commit() { r.settle() }

// Release returns the reserved capacity after a failed insert.
func (r *Reservation) Release() { r.settle() }
