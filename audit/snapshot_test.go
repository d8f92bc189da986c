package audit

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/cargoflow/cargoflow/models"
)

// Test that sensitive fields never reach a stored snapshot
func TestSanitizeMapStripsSensitiveFields(t *testing.T) {
	raw := map[string]any{
		"email":      "boss@example.com",
		"password":   "hunter2",
		"last_login": time.Now(),
		"role":       "BOSS",
	}

	encoded := SanitizeMap(raw)

	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}

	if _, ok := decoded["password"]; ok {
		t.Error("Expected password to be stripped from snapshot")
	}
	if _, ok := decoded["last_login"]; ok {
		t.Error("Expected last_login to be stripped from snapshot")
	}
	if decoded["email"] != "boss@example.com" {
		t.Errorf("Expected email to survive, got %v", decoded["email"])
	}
}

// Test that serializing an unchanged entity twice yields identical bytes
func TestSnapshotDeterministic(t *testing.T) {
	createdBy := int64(7)
	po := &models.PurchaseOrder{
		ID:         42,
		SupplierID: 3,
		Site:       models.SitePN,
		Status:     models.POStatusDraft,
		CreatedBy:  &createdBy,
		CreatedAt:  time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}

	first := Snapshot(po)
	second := Snapshot(po)

	if !bytes.Equal(first, second) {
		t.Errorf("Expected identical snapshots, got %s and %s", first, second)
	}
}

// Test that times and optional references serialize to the pinned formats
func TestSnapshotFieldFormats(t *testing.T) {
	eta := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	shipment := &models.ContainerShipment{
		ID:              5,
		ContainerNo:     "MSKU1234567",
		Status:          models.ShipmentInTransit,
		ETA:             &eta,
		OriginCountry:   "CN",
		DestinationType: models.DestinationBranchStock,
		DestinationSite: models.SiteKIN,
		CreatedAt:       time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}

	var decoded map[string]any
	if err := json.Unmarshal(Snapshot(shipment), &decoded); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}

	if decoded["eta"] != "2026-09-15" {
		t.Errorf("Expected date-only ETA, got %v", decoded["eta"])
	}
	if decoded["etd"] != nil {
		t.Errorf("Expected null ETD, got %v", decoded["etd"])
	}
	if decoded["created_at"] != "2026-08-01T10:30:00Z" {
		t.Errorf("Expected RFC 3339 created_at, got %v", decoded["created_at"])
	}
	if decoded["created_by"] != nil {
		t.Errorf("Expected null created_by, got %v", decoded["created_by"])
	}
}

// Test that non-UTC times normalize to UTC in snapshots
func TestSnapshotNormalizesTimezone(t *testing.T) {
	offset := time.FixedZone("CAT", 2*60*60)
	raw := map[string]any{
		"changed_at": time.Date(2026, 8, 1, 12, 0, 0, 0, offset),
	}

	var decoded map[string]any
	if err := json.Unmarshal(SanitizeMap(raw), &decoded); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}

	if decoded["changed_at"] != "2026-08-01T10:00:00Z" {
		t.Errorf("Expected UTC-normalized time, got %v", decoded["changed_at"])
	}
}

// Test that values the encoder cannot handle degrade to strings instead of
// failing the snapshot
func TestSnapshotCoercesUnencodableValues(t *testing.T) {
	raw := map[string]any{
		"bad":    func() {},
		"nested": map[string]any{"when": time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		"list":   []any{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}

	encoded := SanitizeMap(raw)
	if encoded == nil {
		t.Fatal("Expected a snapshot despite unencodable value")
	}

	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}

	if _, ok := decoded["bad"].(string); !ok {
		t.Errorf("Expected unencodable value coerced to string, got %T", decoded["bad"])
	}
	nested, ok := decoded["nested"].(map[string]any)
	if !ok || nested["when"] != "2026-01-02T03:04:05Z" {
		t.Errorf("Expected nested time coerced to RFC 3339, got %v", decoded["nested"])
	}
}

// Test that a nil entity snapshots to nil
func TestSnapshotNil(t *testing.T) {
	if got := Snapshot(nil); got != nil {
		t.Errorf("Expected nil snapshot for nil entity, got %s", got)
	}
	if got := SanitizeMap(nil); got != nil {
		t.Errorf("Expected nil snapshot for nil map, got %s", got)
	}
}
