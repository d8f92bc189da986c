package models

import (
	"testing"
	"time"
)

// Test LoginForm validation
func TestLoginFormValidation(t *testing.T) {
	validForm := LoginForm{Email: "agent@example.com", Password: "secret"}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	invalidForm := LoginForm{}
	if errors := invalidForm.Validate(); len(errors) != 2 {
		t.Errorf("Expected 2 errors for empty form, got: %v", errors)
	}
}

// Test UserForm validation
func TestUserFormValidation(t *testing.T) {
	validForm := UserForm{
		Email:    "agent@example.com",
		FullName: "Branch Agent",
		Role:     RoleBranchAgent,
		Site:     SitePN,
		Password: "longenough",
	}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	invalidForm := UserForm{
		Email:    "not-an-email",
		Role:     "MANAGER",
		Site:     "XX",
		Password: "short",
	}
	errors := invalidForm.Validate()
	if len(errors) != 5 {
		t.Errorf("Expected 5 errors for invalid form, got: %v", errors)
	}
}

// Test PurchaseOrderForm validation
func TestPurchaseOrderFormValidation(t *testing.T) {
	validForm := PurchaseOrderForm{
		SupplierID: 1,
		Site:       SiteDLA,
		Lines: []PurchaseOrderLineForm{
			{ProductID: 1, Qty: 10, UnitPrice: 4.5},
		},
	}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	invalidForm := PurchaseOrderForm{
		Site:   SiteBE, // HQ cannot receive purchase orders
		Status: "OPEN",
		Lines: []PurchaseOrderLineForm{
			{ProductID: 0, Qty: -1, UnitPrice: -2},
		},
	}
	errors := invalidForm.Validate()
	if len(errors) != 6 {
		t.Errorf("Expected 6 errors for invalid form, got: %v", errors)
	}
}

// Test ShipmentForm validation
func TestShipmentFormValidation(t *testing.T) {
	validForm := ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: DestinationBranchStock,
		DestinationSite: SiteKIN,
		ETD:             "2026-08-01",
		ETA:             "2026-09-15",
	}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Branch stock requires a destination site
	missingSite := ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: DestinationBranchStock,
	}
	if errors := missingSite.Validate(); len(errors) != 1 {
		t.Errorf("Expected 1 error for branch stock without site, got: %v", errors)
	}

	// Direct client shipments do not need a site
	directClient := ShipmentForm{
		BLNo:            "BL-001",
		OriginCountry:   "CN",
		DestinationType: DestinationDirectClient,
		ClientName:      "Client A",
	}
	if errors := directClient.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for direct client shipment, got: %v", errors)
	}

	badDate := ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: DestinationDirectClient,
		ETD:             "01/08/2026",
	}
	if errors := badDate.Validate(); len(errors) != 1 {
		t.Errorf("Expected 1 error for malformed ETD, got: %v", errors)
	}
}

// Test StockMovementForm validation
func TestStockMovementFormValidation(t *testing.T) {
	validForm := StockMovementForm{
		MovementType: MovementIn,
		Site:         SitePN,
		ProductID:    1,
		Qty:          20,
	}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Adjustments may be negative but never zero
	zeroQty := StockMovementForm{
		MovementType: MovementAdjustment,
		Site:         SitePN,
		ProductID:    1,
		Qty:          0,
	}
	if errors := zeroQty.Validate(); len(errors) != 1 {
		t.Errorf("Expected 1 error for zero qty, got: %v", errors)
	}
}

// Test site resolution precedence across entity kinds
func TestResolveSite(t *testing.T) {
	po := &PurchaseOrder{ID: 1, Site: SiteDLA}
	if got := po.ResolveSite(); got != SiteDLA {
		t.Errorf("Expected PO site DLA, got %q", got)
	}

	shipment := &ContainerShipment{ID: 2, DestinationSite: SiteKIN}
	if got := shipment.ResolveSite(); got != SiteKIN {
		t.Errorf("Expected shipment site KIN, got %q", got)
	}

	// Direct client shipment without a site resolves to empty
	direct := &ContainerShipment{ID: 3, DestinationType: DestinationDirectClient}
	if got := direct.ResolveSite(); got != "" {
		t.Errorf("Expected empty site for direct client shipment, got %q", got)
	}
}

// Test document site resolution walks the linked shipment before the
// linked purchase order, and does not fall through when the shipment has
// no destination site.
func TestDocumentResolveSiteOrder(t *testing.T) {
	doc := &Document{
		LinkedShipment: &ContainerShipment{DestinationSite: SitePN},
		LinkedPO:       &PurchaseOrder{Site: SiteDLA},
	}
	if got := doc.ResolveSite(); got != SitePN {
		t.Errorf("Expected linked shipment to win, got %q", got)
	}

	// Linked shipment without a site still wins over the PO
	doc = &Document{
		LinkedShipment: &ContainerShipment{},
		LinkedPO:       &PurchaseOrder{Site: SiteDLA},
	}
	if got := doc.ResolveSite(); got != "" {
		t.Errorf("Expected empty site from siteless shipment, got %q", got)
	}

	doc = &Document{LinkedPO: &PurchaseOrder{Site: SiteDLA}}
	if got := doc.ResolveSite(); got != SiteDLA {
		t.Errorf("Expected PO site DLA, got %q", got)
	}

	doc = &Document{}
	if got := doc.ResolveSite(); got != "" {
		t.Errorf("Expected empty site for unlinked document, got %q", got)
	}
}

// Test stock movement site precedence: the movement's own site wins over
// the related shipment's destination.
func TestStockMovementSitePrecedence(t *testing.T) {
	movement := &StockMovement{
		Site:            SitePN,
		RelatedShipment: &ContainerShipment{DestinationSite: SiteDLA},
	}
	if got := movement.ResolveSite(); got != SitePN {
		t.Errorf("Expected movement's own site PN, got %q", got)
	}
}

// Test money and date formatting used in audit snapshots
func TestFormatting(t *testing.T) {
	if got := FormatMoney(1234.5); got != "1234.50" {
		t.Errorf("Expected 1234.50, got %q", got)
	}
	if got := FormatMoney(0); got != "0.00" {
		t.Errorf("Expected 0.00, got %q", got)
	}

	day := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(day); got != "2026-08-28" {
		t.Errorf("Expected 2026-08-28, got %q", got)
	}

	parsed, err := ParseDate("2026-08-28")
	if err != nil {
		t.Fatalf("Failed to parse date: %v", err)
	}
	if !parsed.Equal(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected parsed date: %v", parsed)
	}
}
