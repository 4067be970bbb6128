package ports

import (
	"context"

	"jobeval/internal/audit"
)

// AuditPort emits evaluation audit events. Defined here so the evaluation
// module does not depend on a concrete store or publisher.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
