package audit

import (
	"context"

	"github.com/cargoflow/cargoflow/models"
)

// Auditable is implemented by every tracked entity kind. The owning service
// layer calls the interceptor explicitly around each mutation instead of
// relying on implicit lifecycle hooks.
type Auditable interface {
	// EntityType names the entity kind as stored in audit records.
	EntityType() string
	// EntityID is the string form of the entity's identifier.
	EntityID() string
	// AuditMap returns the entity's fields as a flat mapping. Values must
	// already be JSON-friendly: scalar ids for relations, formatted strings
	// for dates and money.
	AuditMap() map[string]any
	// ResolveSite returns the site the audit trail attributes events to,
	// or "" when unresolvable. Each kind encodes its own fallback order.
	ResolveSite() string
}

// EventStore is the append-only sink the interceptor writes to. A write
// failure propagates to the caller; everything before the write is
// best-effort.
type EventStore interface {
	Append(ctx context.Context, event *models.AuditEvent) error
}
