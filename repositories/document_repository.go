package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// DocumentRepository interface defines document database operations
type DocumentRepository interface {
	GetAll(ctx context.Context) ([]models.Document, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id int64) error
	CountVersions(ctx context.Context, title string) (int, error)
	MarkPreviousVersions(ctx context.Context, title string, currentID int64) error
	ShipmentDocTypes(ctx context.Context, shipmentIDs []int64, docTypes []string) (map[int64][]string, error)
}

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db database.DBTX
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db database.DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

// Documents are loaded together with the linked shipment's destination site
// and the linked purchase order's site, so site resolution can walk the
// relation without extra queries.
const documentSelect = `
	SELECT d.id, d.linked_shipment_id, d.linked_po_id, d.title, d.doc_type, d.description,
	       d.file_path, d.uploaded_by, d.uploaded_at, d.version, d.is_current,
	       s.id, s.destination_site, p.id, p.site
	FROM documents d
	LEFT JOIN container_shipments s ON s.id = d.linked_shipment_id
	LEFT JOIN purchase_orders p ON p.id = d.linked_po_id
`

// GetAll retrieves all documents, newest first
func (r *documentRepository) GetAll(ctx context.Context) ([]models.Document, error) {
	query := documentSelect + ` ORDER BY d.uploaded_at DESC, d.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

// GetByID retrieves a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := documentSelect + ` WHERE d.id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// Create creates a new document
func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (linked_shipment_id, linked_po_id, title, doc_type, description,
		                       file_path, uploaded_by, uploaded_at, version, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Version == 0 {
		doc.Version = 1
	}

	result, err := r.db.ExecContext(ctx, query,
		doc.LinkedShipmentID,
		doc.LinkedPOID,
		doc.Title,
		doc.DocType,
		doc.Description,
		doc.FilePath,
		doc.UploadedBy,
		doc.UploadedAt,
		doc.Version,
		doc.IsCurrent,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	doc.ID = id
	return nil
}

// Update updates an existing document's metadata
func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET linked_shipment_id = ?, linked_po_id = ?, title = ?, doc_type = ?,
		    description = ?, is_current = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		doc.LinkedShipmentID,
		doc.LinkedPOID,
		doc.Title,
		doc.DocType,
		doc.Description,
		doc.IsCurrent,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a document by ID
func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM documents WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountVersions counts existing documents sharing a title
func (r *documentRepository) CountVersions(ctx context.Context, title string) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE title = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, title).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count document versions: %w", err)
	}

	return count, nil
}

// MarkPreviousVersions clears the is_current flag on older versions of a title
func (r *documentRepository) MarkPreviousVersions(ctx context.Context, title string, currentID int64) error {
	query := `UPDATE documents SET is_current = 0 WHERE title = ? AND id <> ?`

	if _, err := r.db.ExecContext(ctx, query, title, currentID); err != nil {
		return fmt.Errorf("failed to mark previous versions: %w", err)
	}

	return nil
}

// ShipmentDocTypes reports which of the given doc types exist per shipment.
// Used by the alert builder to flag shipments missing required paperwork.
func (r *documentRepository) ShipmentDocTypes(ctx context.Context, shipmentIDs []int64, docTypes []string) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(shipmentIDs) == 0 || len(docTypes) == 0 {
		return result, nil
	}

	query := `
		SELECT DISTINCT linked_shipment_id, doc_type
		FROM documents
		WHERE linked_shipment_id IN (` + placeholders(len(shipmentIDs)) + `)
		  AND doc_type IN (` + placeholders(len(docTypes)) + `)
	`

	args := make([]any, 0, len(shipmentIDs)+len(docTypes))
	for _, id := range shipmentIDs {
		args = append(args, id)
	}
	for _, docType := range docTypes {
		args = append(args, docType)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment doc types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipmentID int64
		var docType string
		if err := rows.Scan(&shipmentID, &docType); err != nil {
			return nil, fmt.Errorf("failed to scan shipment doc type: %w", err)
		}
		result[shipmentID] = append(result[shipmentID], docType)
	}

	return result, rows.Err()
}

// placeholders renders n comma-separated SQL parameter markers
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanDocument(scan func(dest ...any) error) (*models.Document, error) {
	var doc models.Document
	var shipmentID, poID, uploadedBy sql.NullInt64
	var linkedShipmentID, linkedPOID sql.NullInt64
	var shipmentSite, poSite sql.NullString

	err := scan(
		&doc.ID,
		&linkedShipmentID,
		&linkedPOID,
		&doc.Title,
		&doc.DocType,
		&doc.Description,
		&doc.FilePath,
		&uploadedBy,
		&doc.UploadedAt,
		&doc.Version,
		&doc.IsCurrent,
		&shipmentID,
		&shipmentSite,
		&poID,
		&poSite,
	)
	if err != nil {
		return nil, err
	}

	if linkedShipmentID.Valid {
		id := linkedShipmentID.Int64
		doc.LinkedShipmentID = &id
	}
	if linkedPOID.Valid {
		id := linkedPOID.Int64
		doc.LinkedPOID = &id
	}
	if uploadedBy.Valid {
		id := uploadedBy.Int64
		doc.UploadedBy = &id
	}

	if shipmentID.Valid {
		doc.LinkedShipment = &models.ContainerShipment{
			ID:              shipmentID.Int64,
			DestinationSite: shipmentSite.String,
		}
	}
	if poID.Valid {
		doc.LinkedPO = &models.PurchaseOrder{
			ID:   poID.Int64,
			Site: poSite.String,
		}
	}

	return &doc, nil
}
