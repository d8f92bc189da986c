package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/models"
)

// Interceptor records audit events around tracked entity mutations. It is
// invoked explicitly by the service layer: BeforeSave before an update
// overwrites a row, AfterSave once the row is persisted, BeforeDelete
// before a row is removed. Snapshot and site preparation never fail the
// business mutation; only the event store write can.
type Interceptor struct {
	store EventStore
	log   *logrus.Logger
}

// NewInterceptor creates an interceptor writing to the given store.
func NewInterceptor(store EventStore, log *logrus.Logger) *Interceptor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Interceptor{store: store, log: log}
}

// WithStore returns a copy bound to a different store, typically the
// transaction-scoped audit repository of an in-flight mutation.
func (i *Interceptor) WithStore(store EventStore) *Interceptor {
	return &Interceptor{store: store, log: i.log}
}

// BeforeSave captures the persisted pre-image of an entity about to be
// overwritten. Pass the freshly loaded current row; pass nil when it could
// not be found (concurrent delete). Capture failures are swallowed and
// resolve to nil, never to an error.
func (i *Interceptor) BeforeSave(ctx context.Context, existing Auditable) (before json.RawMessage) {
	if existing == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			i.log.WithField("panic", r).Warn("audit: pre-save snapshot failed, recording update without before image")
			before = nil
		}
	}()
	return Snapshot(existing)
}

// AfterSave records the persistence of an entity: CREATE when wasInsert,
// otherwise UPDATE carrying the pre-image captured by BeforeSave (or nil
// when it could not be captured). The returned error is the event store
// write error and aborts the surrounding transaction.
func (i *Interceptor) AfterSave(ctx context.Context, e Auditable, before json.RawMessage, wasInsert bool) error {
	after := i.snapshot(e)
	if wasInsert {
		summary := fmt.Sprintf("Created %s %s", e.EntityType(), e.EntityID())
		return i.emit(ctx, models.ActionCreate, e, nil, after, summary)
	}
	summary := fmt.Sprintf("Updated %s %s", e.EntityType(), e.EntityID())
	return i.emit(ctx, models.ActionUpdate, e, before, after, summary)
}

// BeforeDelete records the deletion of an entity with its live pre-image.
// Call it with the current row, inside the same transaction as the delete,
// before the physical delete runs.
func (i *Interceptor) BeforeDelete(ctx context.Context, e Auditable) error {
	before := i.snapshot(e)
	summary := fmt.Sprintf("Deleted %s %s", e.EntityType(), e.EntityID())
	return i.emit(ctx, models.ActionDelete, e, before, nil, summary)
}

// StatusChanged records a shipment status transition. The transition lives
// in the summary; before/after are intentionally null. Emitted in addition
// to the shipment's own UPDATE event.
func (i *Interceptor) StatusChanged(ctx context.Context, shipment *models.ContainerShipment, from, to string) error {
	summary := fmt.Sprintf("Shipment %d status %s -> %s", shipment.ID, from, to)
	return i.emit(ctx, models.ActionStatusChange, shipment, nil, nil, summary)
}

// DocumentUploaded records a new document upload, in addition to the
// document's CREATE event.
func (i *Interceptor) DocumentUploaded(ctx context.Context, doc *models.Document) error {
	summary := fmt.Sprintf("Uploaded document %d (%s)", doc.ID, doc.DocType)
	return i.emit(ctx, models.ActionUploadDoc, doc, nil, nil, summary)
}

// StockMoved records a new stock ledger entry, in addition to its CREATE
// event.
func (i *Interceptor) StockMoved(ctx context.Context, mv *models.StockMovement) error {
	summary := fmt.Sprintf("Stock movement %d %s", mv.ID, mv.MovementType)
	return i.emit(ctx, models.ActionStockMove, mv, nil, nil, summary)
}

// SaleRecorded records a new sale, in addition to its CREATE event.
func (i *Interceptor) SaleRecorded(ctx context.Context, sale *models.Sale) error {
	summary := fmt.Sprintf("Sale %d (%s)", sale.ID, sale.Site)
	return i.emit(ctx, models.ActionSale, sale, nil, nil, summary)
}

// snapshot wraps Snapshot with the swallow-and-log contract for
// post-mutation images.
func (i *Interceptor) snapshot(e Auditable) (snap json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			i.log.WithField("panic", r).Warn("audit: snapshot failed, recording event without state image")
			snap = nil
		}
	}()
	return Snapshot(e)
}

// resolveSite wraps the entity's own resolution; exhaustion is not an
// error and resolves to "".
func (i *Interceptor) resolveSite(e Auditable) (site string) {
	defer func() {
		if r := recover(); r != nil {
			i.log.WithField("panic", r).Warn("audit: site resolution failed, recording event without site")
			site = ""
		}
	}()
	return e.ResolveSite()
}

func (i *Interceptor) emit(ctx context.Context, action string, e Auditable, before, after json.RawMessage, summary string) error {
	actor := actorctx.FromContext(ctx)

	event := &models.AuditEvent{
		Action:     action,
		EntityType: e.EntityType(),
		EntityID:   e.EntityID(),
		Site:       i.resolveSite(e),
		Summary:    summary,
		BeforeJSON: before,
		AfterJSON:  after,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}
	if actor.Known() {
		actorID := actor.UserID
		event.ActorID = &actorID
		event.ActorEmail = actor.Email
	}

	return i.store.Append(ctx, event)
}
