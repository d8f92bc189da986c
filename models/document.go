package models

import "time"

// Document types.
const (
	DocTypeBL          = "BL"
	DocTypeInvoice     = "INVOICE"
	DocTypePackingList = "PACKING_LIST"
	DocTypeCustoms     = "CUSTOMS"
	DocTypePhoto       = "PHOTO"
	DocTypeOther       = "OTHER"
)

// DocTypes lists the valid document types.
var DocTypes = []string{DocTypeBL, DocTypeInvoice, DocTypePackingList, DocTypeCustoms, DocTypePhoto, DocTypeOther}

// Document represents an uploaded file attached to a shipment or a
// purchase order. LinkedShipment/LinkedPO are populated by the repository
// when the row is loaded so site resolution can walk the relation.
type Document struct {
	ID               int64     `json:"id"`
	LinkedShipmentID *int64    `json:"linked_shipment_id,omitempty"`
	LinkedPOID       *int64    `json:"linked_po_id,omitempty"`
	Title            string    `json:"title"`
	DocType          string    `json:"doc_type"`
	Description      string    `json:"description"`
	FilePath         string    `json:"file_path"`
	UploadedBy       *int64    `json:"uploaded_by,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
	Version          int       `json:"version"`
	IsCurrent        bool      `json:"is_current"`

	LinkedShipment *ContainerShipment `json:"-"`
	LinkedPO       *PurchaseOrder     `json:"-"`
}

// EntityType returns the audit entity kind name.
func (d *Document) EntityType() string { return "Document" }

// EntityID returns the audit entity identifier.
func (d *Document) EntityID() string { return formatID(d.ID) }

// AuditMap returns the flat, JSON-safe field mapping stored in audit
// snapshots. Relations appear as scalar ids only.
func (d *Document) AuditMap() map[string]any {
	return map[string]any{
		"linked_shipment": auditRef(d.LinkedShipmentID),
		"linked_po":       auditRef(d.LinkedPOID),
		"title":           d.Title,
		"doc_type":        d.DocType,
		"description":     d.Description,
		"file":            d.FilePath,
		"uploaded_by":     auditRef(d.UploadedBy),
		"uploaded_at":     auditTime(d.UploadedAt),
		"version":         d.Version,
		"is_current":      d.IsCurrent,
	}
}

// ResolveSite walks the document's relations in fixed order: linked
// shipment destination first, then linked purchase order site. The order is
// significant; a document linked to both follows the shipment.
func (d *Document) ResolveSite() string {
	if d.LinkedShipment != nil {
		return d.LinkedShipment.DestinationSite
	}
	if d.LinkedPO != nil {
		return d.LinkedPO.Site
	}
	return ""
}

// DocumentForm represents form data for uploading/updating documents
type DocumentForm struct {
	LinkedShipmentID *int64 `json:"linked_shipment_id"`
	LinkedPOID       *int64 `json:"linked_po_id"`
	Title            string `json:"title"`
	DocType          string `json:"doc_type"`
	Description      string `json:"description"`
	FilePath         string `json:"file_path"`
}

// Validate validates the document form data
func (f *DocumentForm) Validate() []string {
	var errors []string

	if !containsString(DocTypes, f.DocType) {
		errors = append(errors, "Document type must be one of BL, INVOICE, PACKING_LIST, CUSTOMS, PHOTO, OTHER")
	}
	if f.FilePath == "" {
		errors = append(errors, "File is required")
	}

	return errors
}
