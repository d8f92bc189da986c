package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/models"
)

// memStore is an in-memory EventStore for interceptor tests
type memStore struct {
	events []*models.AuditEvent
	err    error
}

func (m *memStore) Append(ctx context.Context, event *models.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func testActorContext() context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID:    7,
		Email:     "agent@example.com",
		Role:      models.RoleBranchAgent,
		Site:      models.SitePN,
		IPAddress: "10.1.2.3",
		UserAgent: "test-agent/1.0",
	})
}

func testOrder() *models.PurchaseOrder {
	return &models.PurchaseOrder{
		ID:         42,
		SupplierID: 3,
		Site:       models.SitePN,
		Status:     models.POStatusDraft,
		CreatedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// Test that a create records after state only and attributes the actor
func TestAfterSaveCreate(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)

	po := testOrder()
	if err := ic.AfterSave(testActorContext(), po, nil, true); err != nil {
		t.Fatalf("AfterSave failed: %v", err)
	}

	if len(store.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(store.events))
	}

	event := store.events[0]
	if event.Action != models.ActionCreate {
		t.Errorf("Expected CREATE, got %s", event.Action)
	}
	if event.EntityType != "PurchaseOrder" || event.EntityID != "42" {
		t.Errorf("Unexpected entity reference: %s %s", event.EntityType, event.EntityID)
	}
	if event.Site != models.SitePN {
		t.Errorf("Expected site PN, got %q", event.Site)
	}
	if event.Summary != "Created PurchaseOrder 42" {
		t.Errorf("Unexpected summary: %q", event.Summary)
	}
	if event.BeforeJSON != nil {
		t.Error("Expected nil before image on create")
	}
	if event.AfterJSON == nil {
		t.Error("Expected after image on create")
	}
	if event.ActorID == nil || *event.ActorID != 7 || event.ActorEmail != "agent@example.com" {
		t.Error("Expected actor attribution from context")
	}
	if event.IPAddress != "10.1.2.3" || event.UserAgent != "test-agent/1.0" {
		t.Error("Expected request metadata from context")
	}
}

// Test that an update carries the pre-image captured by BeforeSave
func TestBeforeSaveAfterSaveUpdate(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)
	ctx := testActorContext()

	po := testOrder()
	before := ic.BeforeSave(ctx, po)
	if before == nil {
		t.Fatal("Expected a pre-image")
	}

	po.Status = models.POStatusSent
	if err := ic.AfterSave(ctx, po, before, false); err != nil {
		t.Fatalf("AfterSave failed: %v", err)
	}

	event := store.events[0]
	if event.Action != models.ActionUpdate {
		t.Errorf("Expected UPDATE, got %s", event.Action)
	}
	if event.Summary != "Updated PurchaseOrder 42" {
		t.Errorf("Unexpected summary: %q", event.Summary)
	}

	var beforeMap, afterMap map[string]any
	if err := json.Unmarshal(event.BeforeJSON, &beforeMap); err != nil {
		t.Fatalf("Before image is not valid JSON: %v", err)
	}
	if err := json.Unmarshal(event.AfterJSON, &afterMap); err != nil {
		t.Fatalf("After image is not valid JSON: %v", err)
	}
	if beforeMap["status"] != "DRAFT" || afterMap["status"] != "SENT" {
		t.Errorf("Expected status transition DRAFT -> SENT, got %v -> %v", beforeMap["status"], afterMap["status"])
	}
}

// Test that updating without a pre-image still records a valid UPDATE
func TestAfterSaveUpdateWithoutPreImage(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)
	ctx := testActorContext()

	if got := ic.BeforeSave(ctx, nil); got != nil {
		t.Error("Expected nil pre-image for missing entity")
	}

	po := testOrder()
	if err := ic.AfterSave(ctx, po, nil, false); err != nil {
		t.Fatalf("AfterSave failed: %v", err)
	}

	event := store.events[0]
	if event.Action != models.ActionUpdate {
		t.Errorf("Expected UPDATE, got %s", event.Action)
	}
	if event.BeforeJSON != nil {
		t.Error("Expected nil before image")
	}
	if event.AfterJSON == nil {
		t.Error("Expected after image")
	}
}

// Test that a delete records before state only
func TestBeforeDelete(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)

	po := testOrder()
	if err := ic.BeforeDelete(testActorContext(), po); err != nil {
		t.Fatalf("BeforeDelete failed: %v", err)
	}

	event := store.events[0]
	if event.Action != models.ActionDelete {
		t.Errorf("Expected DELETE, got %s", event.Action)
	}
	if event.Summary != "Deleted PurchaseOrder 42" {
		t.Errorf("Unexpected summary: %q", event.Summary)
	}
	if event.BeforeJSON == nil {
		t.Error("Expected before image on delete")
	}
	if event.AfterJSON != nil {
		t.Error("Expected nil after image on delete")
	}
}

// Test the side-channel events: transition in summary, no state images
func TestSideChannelEvents(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)
	ctx := testActorContext()

	shipment := &models.ContainerShipment{ID: 5, DestinationSite: models.SiteKIN}
	if err := ic.StatusChanged(ctx, shipment, models.ShipmentCreated, models.ShipmentInTransit); err != nil {
		t.Fatalf("StatusChanged failed: %v", err)
	}

	docID := int64(9)
	doc := &models.Document{ID: docID, DocType: models.DocTypeBL}
	if err := ic.DocumentUploaded(ctx, doc); err != nil {
		t.Fatalf("DocumentUploaded failed: %v", err)
	}

	movement := &models.StockMovement{ID: 11, MovementType: models.MovementIn, Site: models.SitePN}
	if err := ic.StockMoved(ctx, movement); err != nil {
		t.Fatalf("StockMoved failed: %v", err)
	}

	sale := &models.Sale{ID: 13, Site: models.SiteDLA}
	if err := ic.SaleRecorded(ctx, sale); err != nil {
		t.Fatalf("SaleRecorded failed: %v", err)
	}

	expected := []struct {
		action  string
		summary string
		site    string
	}{
		{models.ActionStatusChange, "Shipment 5 status CREATED -> IN_TRANSIT", models.SiteKIN},
		{models.ActionUploadDoc, "Uploaded document 9 (BL)", ""},
		{models.ActionStockMove, "Stock movement 11 IN", models.SitePN},
		{models.ActionSale, "Sale 13 (DLA)", models.SiteDLA},
	}

	if len(store.events) != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), len(store.events))
	}
	for i, want := range expected {
		event := store.events[i]
		if event.Action != want.action {
			t.Errorf("Event %d: expected action %s, got %s", i, want.action, event.Action)
		}
		if event.Summary != want.summary {
			t.Errorf("Event %d: expected summary %q, got %q", i, want.summary, event.Summary)
		}
		if event.Site != want.site {
			t.Errorf("Event %d: expected site %q, got %q", i, want.site, event.Site)
		}
		if event.BeforeJSON != nil || event.AfterJSON != nil {
			t.Errorf("Event %d: expected no state images on side-channel event", i)
		}
	}
}

// Test that mutations outside a request record a system action
func TestEmitWithoutActor(t *testing.T) {
	store := &memStore{}
	ic := NewInterceptor(store, nil)

	if err := ic.AfterSave(context.Background(), testOrder(), nil, true); err != nil {
		t.Fatalf("AfterSave failed: %v", err)
	}

	event := store.events[0]
	if event.ActorID != nil {
		t.Error("Expected nil actor ID outside a request")
	}
	if event.ActorEmail != "" {
		t.Errorf("Expected empty actor email, got %q", event.ActorEmail)
	}
}

// Test that a store failure propagates to the caller
func TestAppendFailurePropagates(t *testing.T) {
	storeErr := errors.New("disk full")
	ic := NewInterceptor(&memStore{err: storeErr}, nil)

	err := ic.AfterSave(testActorContext(), testOrder(), nil, true)
	if !errors.Is(err, storeErr) {
		t.Errorf("Expected store error to propagate, got %v", err)
	}
}

// Test that WithStore rebinds the target without touching the original
func TestWithStore(t *testing.T) {
	original := &memStore{}
	replacement := &memStore{}
	ic := NewInterceptor(original, nil)

	if err := ic.WithStore(replacement).AfterSave(testActorContext(), testOrder(), nil, true); err != nil {
		t.Fatalf("AfterSave failed: %v", err)
	}

	if len(original.events) != 0 {
		t.Errorf("Expected original store untouched, got %d events", len(original.events))
	}
	if len(replacement.events) != 1 {
		t.Errorf("Expected 1 event in replacement store, got %d", len(replacement.events))
	}
}
