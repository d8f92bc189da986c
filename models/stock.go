package models

import "time"

// Stock movement types.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// MovementTypes lists the valid stock movement types.
var MovementTypes = []string{MovementIn, MovementOut, MovementAdjustment}

// StockMovement represents a single entry in a site's stock ledger.
// RelatedShipment is populated by the repository when set; the movement's
// own site still wins for audit attribution.
type StockMovement struct {
	ID                int64     `json:"id"`
	MovementType      string    `json:"movement_type"`
	Site              string    `json:"site"`
	ProductID         int64     `json:"product_id"`
	Qty               int       `json:"qty"`
	RelatedShipmentID *int64    `json:"related_shipment_id,omitempty"`
	CreatedBy         *int64    `json:"created_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Note              string    `json:"note"`

	RelatedShipment *ContainerShipment `json:"-"`
}

// EntityType returns the audit entity kind name.
func (m *StockMovement) EntityType() string { return "StockMovement" }

// EntityID returns the audit entity identifier.
func (m *StockMovement) EntityID() string { return formatID(m.ID) }

// AuditMap returns the flat, JSON-safe field mapping stored in audit
// snapshots.
func (m *StockMovement) AuditMap() map[string]any {
	return map[string]any{
		"movement_type":    m.MovementType,
		"site":             m.Site,
		"product":          m.ProductID,
		"qty":              m.Qty,
		"related_shipment": auditRef(m.RelatedShipmentID),
		"created_by":       auditRef(m.CreatedBy),
		"created_at":       auditTime(m.CreatedAt),
		"note":             m.Note,
	}
}

// ResolveSite returns the movement's own site. The direct attribute takes
// precedence over the related shipment's destination.
func (m *StockMovement) ResolveSite() string { return m.Site }

// StockMovementForm represents form data for recording stock movements
type StockMovementForm struct {
	MovementType      string `json:"movement_type"`
	Site              string `json:"site"`
	ProductID         int64  `json:"product_id"`
	Qty               int    `json:"qty"`
	RelatedShipmentID *int64 `json:"related_shipment_id"`
	Note              string `json:"note"`
}

// Validate validates the stock movement form data
func (f *StockMovementForm) Validate() []string {
	var errors []string

	if !containsString(MovementTypes, f.MovementType) {
		errors = append(errors, "Movement type must be one of IN, OUT, ADJUSTMENT")
	}
	if !IsValidBranchSite(f.Site) {
		errors = append(errors, "Site must be one of PN, DLA, KIN")
	}
	if f.ProductID <= 0 {
		errors = append(errors, "Product is required")
	}
	if f.Qty == 0 {
		errors = append(errors, "Qty must not be zero")
	}

	return errors
}

// Sale represents a local sale at a branch site.
type Sale struct {
	ID          int64     `json:"id"`
	Site        string    `json:"site"`
	ClientLocal string    `json:"client_local"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Lines []SaleLine `json:"lines,omitempty"`
}

// SaleLine represents a product line on a sale.
type SaleLine struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// EntityType returns the audit entity kind name.
func (s *Sale) EntityType() string { return "Sale" }

// EntityID returns the audit entity identifier.
func (s *Sale) EntityID() string { return formatID(s.ID) }

// AuditMap returns the flat, JSON-safe field mapping stored in audit
// snapshots.
func (s *Sale) AuditMap() map[string]any {
	return map[string]any{
		"site":         s.Site,
		"client_local": s.ClientLocal,
		"created_by":   auditRef(s.CreatedBy),
		"created_at":   auditTime(s.CreatedAt),
	}
}

// ResolveSite returns the sale's own site.
func (s *Sale) ResolveSite() string { return s.Site }

// SaleForm represents form data for recording sales
type SaleForm struct {
	Site        string         `json:"site"`
	ClientLocal string         `json:"client_local"`
	Lines       []SaleLineForm `json:"lines"`
}

// SaleLineForm represents a line item in a sale form
type SaleLineForm struct {
	ProductID int64   `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Validate validates the sale form data
func (f *SaleForm) Validate() []string {
	var errors []string

	if !IsValidBranchSite(f.Site) {
		errors = append(errors, "Site must be one of PN, DLA, KIN")
	}
	if f.ClientLocal == "" {
		errors = append(errors, "Client name is required")
	}
	for _, line := range f.Lines {
		if line.ProductID <= 0 {
			errors = append(errors, "Line product is required")
		}
		if line.Qty <= 0 {
			errors = append(errors, "Line qty must be positive")
		}
	}

	return errors
}
