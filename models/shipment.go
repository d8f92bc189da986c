package models

import (
	"time"

	"github.com/google/uuid"
)

// Container shipment statuses, in lifecycle order.
const (
	ShipmentCreated   = "CREATED"
	ShipmentInTransit = "IN_TRANSIT"
	ShipmentArrived   = "ARRIVED"
	ShipmentCleared   = "CLEARED"
	ShipmentDelivered = "DELIVERED"
)

// ShipmentStatuses lists the valid shipment statuses.
var ShipmentStatuses = []string{ShipmentCreated, ShipmentInTransit, ShipmentArrived, ShipmentCleared, ShipmentDelivered}

// Shipment destination types.
const (
	DestinationDirectClient = "DIRECT_CLIENT"
	DestinationBranchStock  = "BRANCH_STOCK"
)

// DestinationTypes lists the valid destination types.
var DestinationTypes = []string{DestinationDirectClient, DestinationBranchStock}

// ContainerShipment represents a container moving toward a client or a
// branch stock site.
type ContainerShipment struct {
	ID              int64      `json:"id"`
	UUID            uuid.UUID  `json:"uuid"`
	ContainerNo     string     `json:"container_no"`
	BLNo            string     `json:"bl_no"`
	Status          string     `json:"status"`
	ETD             *time.Time `json:"etd,omitempty"`
	ETA             *time.Time `json:"eta,omitempty"`
	OriginCountry   string     `json:"origin_country"`
	DestinationType string     `json:"destination_type"`
	DestinationSite string     `json:"destination_site,omitempty"`
	ClientName      string     `json:"client_name"`
	CreatedBy       *int64     `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	Items []ContainerItem `json:"items,omitempty"`
}

// ContainerItem represents a product line inside a container.
type ContainerItem struct {
	ID         int64   `json:"id"`
	ShipmentID int64   `json:"shipment_id"`
	ProductID  int64   `json:"product_id"`
	Qty        int     `json:"qty"`
	Unit       string  `json:"unit"`
	UnitPrice  float64 `json:"unit_price"`
}

// StatusHistory records a single status transition on a shipment. It exists
// to feed STATUS_CHANGE audit events and the shipment timeline.
type StatusHistory struct {
	ID         int64     `json:"id"`
	ShipmentID int64     `json:"shipment_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  *int64    `json:"changed_by,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
	Note       string    `json:"note"`
}

// EntityType returns the audit entity kind name.
func (s *ContainerShipment) EntityType() string { return "ContainerShipment" }

// EntityID returns the audit entity identifier.
func (s *ContainerShipment) EntityID() string { return formatID(s.ID) }

// AuditMap returns the flat, JSON-safe field mapping stored in audit
// snapshots. Dates are YYYY-MM-DD, timestamps RFC 3339 UTC.
func (s *ContainerShipment) AuditMap() map[string]any {
	return map[string]any{
		"uuid":             s.UUID.String(),
		"container_no":     s.ContainerNo,
		"bl_no":            s.BLNo,
		"status":           s.Status,
		"etd":              auditDate(s.ETD),
		"eta":              auditDate(s.ETA),
		"origin_country":   s.OriginCountry,
		"destination_type": s.DestinationType,
		"destination_site": s.DestinationSite,
		"client_name":      s.ClientName,
		"created_by":       auditRef(s.CreatedBy),
		"created_at":       auditTime(s.CreatedAt),
	}
}

// ResolveSite attributes shipment events to the destination site, empty when
// the shipment goes to a direct client without one.
func (s *ContainerShipment) ResolveSite() string { return s.DestinationSite }

// ShipmentForm represents form data for creating/updating shipments
type ShipmentForm struct {
	ContainerNo     string              `json:"container_no"`
	BLNo            string              `json:"bl_no"`
	ETD             string              `json:"etd"`
	ETA             string              `json:"eta"`
	OriginCountry   string              `json:"origin_country"`
	DestinationType string              `json:"destination_type"`
	DestinationSite string              `json:"destination_site"`
	ClientName      string              `json:"client_name"`
	Items           []ContainerItemForm `json:"items"`
}

// ContainerItemForm represents a container item in a shipment form
type ContainerItemForm struct {
	ProductID int64   `json:"product_id"`
	Qty       int     `json:"qty"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
}

// Validate validates the shipment form data
func (f *ShipmentForm) Validate() []string {
	var errors []string

	if f.ContainerNo == "" && f.BLNo == "" {
		errors = append(errors, "Container number or BL number is required")
	}
	if f.OriginCountry == "" {
		errors = append(errors, "Origin country is required")
	}
	if !containsString(DestinationTypes, f.DestinationType) {
		errors = append(errors, "Destination type must be DIRECT_CLIENT or BRANCH_STOCK")
	}
	if f.DestinationType == DestinationBranchStock && !IsValidBranchSite(f.DestinationSite) {
		errors = append(errors, "Destination site must be one of PN, DLA, KIN for branch stock")
	}
	if f.DestinationSite != "" && !IsValidBranchSite(f.DestinationSite) {
		errors = append(errors, "Destination site must be one of PN, DLA, KIN")
	}
	if f.ETD != "" {
		if _, err := ParseDate(f.ETD); err != nil {
			errors = append(errors, "ETD must be a valid date (YYYY-MM-DD)")
		}
	}
	if f.ETA != "" {
		if _, err := ParseDate(f.ETA); err != nil {
			errors = append(errors, "ETA must be a valid date (YYYY-MM-DD)")
		}
	}
	for _, item := range f.Items {
		if item.ProductID <= 0 {
			errors = append(errors, "Item product is required")
		}
		if item.Qty <= 0 {
			errors = append(errors, "Item qty must be positive")
		}
	}

	return errors
}

// StatusChangeForm represents a shipment status transition request
type StatusChangeForm struct {
	ToStatus string `json:"to_status"`
	Note     string `json:"note"`
}

// Validate validates the status change form data
func (f *StatusChangeForm) Validate() []string {
	var errors []string

	if !containsString(ShipmentStatuses, f.ToStatus) {
		errors = append(errors, "Status must be one of CREATED, IN_TRANSIT, ARRIVED, CLEARED, DELIVERED")
	}

	return errors
}
