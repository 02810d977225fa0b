// Package auditlog defines the audit sink port (interface).
package auditlog

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain/audit"
)

// Sink records audit events. Implementations must be safe for concurrent
// use. Callers treat the sink as best-effort: a returned error is logged
// and swallowed, never propagated to the operation being audited.
type Sink interface {
	Record(ctx context.Context, ev audit.Event) error
}
