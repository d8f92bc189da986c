package models

import "time"

// Purchase order statuses.
const (
	POStatusDraft    = "DRAFT"
	POStatusSent     = "SENT"
	POStatusReceived = "RECEIVED"
)

// POStatuses lists the valid purchase order statuses.
var POStatuses = []string{POStatusDraft, POStatusSent, POStatusReceived}

// PurchaseOrder represents an order placed with a supplier for a site.
type PurchaseOrder struct {
	ID         int64     `json:"id"`
	SupplierID int64     `json:"supplier_id"`
	Site       string    `json:"site"`
	Status     string    `json:"status"`
	CreatedBy  *int64    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Lines []PurchaseOrderLine `json:"lines,omitempty"`
}

// PurchaseOrderLine represents a single product line on a purchase order.
type PurchaseOrderLine struct {
	ID              int64   `json:"id"`
	PurchaseOrderID int64   `json:"purchase_order_id"`
	ProductID       int64   `json:"product_id"`
	Qty             int     `json:"qty"`
	UnitPrice       float64 `json:"unit_price"`
}

// EntityType returns the audit entity kind name.
func (p *PurchaseOrder) EntityType() string { return "PurchaseOrder" }

// EntityID returns the audit entity identifier.
func (p *PurchaseOrder) EntityID() string { return formatID(p.ID) }

// AuditMap returns the flat, JSON-safe field mapping stored in audit
// snapshots. Relations appear as scalar ids only.
func (p *PurchaseOrder) AuditMap() map[string]any {
	return map[string]any{
		"supplier":   p.SupplierID,
		"site":       p.Site,
		"status":     p.Status,
		"created_by": auditRef(p.CreatedBy),
		"created_at": auditTime(p.CreatedAt),
	}
}

// ResolveSite returns the site the audit trail attributes this order to.
func (p *PurchaseOrder) ResolveSite() string { return p.Site }

// PurchaseOrderForm represents form data for creating/updating purchase orders
type PurchaseOrderForm struct {
	SupplierID int64                   `json:"supplier_id"`
	Site       string                  `json:"site"`
	Status     string                  `json:"status"`
	Lines      []PurchaseOrderLineForm `json:"lines"`
}

// PurchaseOrderLineForm represents a line item in a purchase order form
type PurchaseOrderLineForm struct {
	ProductID int64   `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Validate validates the purchase order form data
func (f *PurchaseOrderForm) Validate() []string {
	var errors []string

	if f.SupplierID <= 0 {
		errors = append(errors, "Supplier is required")
	}
	if !IsValidBranchSite(f.Site) {
		errors = append(errors, "Site must be one of PN, DLA, KIN")
	}
	if f.Status != "" && !containsString(POStatuses, f.Status) {
		errors = append(errors, "Status must be one of DRAFT, SENT, RECEIVED")
	}
	for _, line := range f.Lines {
		if line.ProductID <= 0 {
			errors = append(errors, "Line product is required")
		}
		if line.Qty <= 0 {
			errors = append(errors, "Line qty must be positive")
		}
		if line.UnitPrice < 0 {
			errors = append(errors, "Line unit price must not be negative")
		}
	}

	return errors
}
