package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/port/auditlog"
)

var _ auditlog.Sink = (*Store)(nil)

// Record implements auditlog.Sink by writing to the audit_logs table.
// Writes go through the same pool as everything else but outside any
// caller transaction: an audit row is never a reason to roll back the
// operation it records.
func (s *Store) Record(ctx context.Context, ev audit.Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, tenant_id, actor_id, action, entity_type, entity_id, source_addr, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), nullIfEmpty(ev.TenantID), nullIfEmpty(ev.ActorID),
		ev.Action, ev.EntityType, nullIfEmpty(ev.EntityID), nullIfEmpty(ev.SourceAddr), ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}
