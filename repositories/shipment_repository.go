package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// ShipmentRepository interface defines container shipment database operations
type ShipmentRepository interface {
	GetAll(ctx context.Context, site string) ([]models.ContainerShipment, error)
	GetByID(ctx context.Context, id int64) (*models.ContainerShipment, error)
	Create(ctx context.Context, shipment *models.ContainerShipment) error
	Update(ctx context.Context, shipment *models.ContainerShipment) error
	Delete(ctx context.Context, id int64) error
	AddStatusHistory(ctx context.Context, entry *models.StatusHistory) error
	GetStatusHistory(ctx context.Context, shipmentID int64) ([]models.StatusHistory, error)
}

// shipmentRepository implements ShipmentRepository interface
type shipmentRepository struct {
	db database.DBTX
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db database.DBTX) ShipmentRepository {
	return &shipmentRepository{db: db}
}

const shipmentColumns = `id, uuid, container_no, bl_no, status, etd, eta,
	       origin_country, destination_type, destination_site, client_name, created_by, created_at`

// GetAll retrieves shipments, optionally filtered by destination site
func (r *shipmentRepository) GetAll(ctx context.Context, site string) ([]models.ContainerShipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM container_shipments`
	var args []any
	if site != "" {
		query += ` WHERE destination_site = ?`
		args = append(args, site)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer rows.Close()

	var shipments []models.ContainerShipment
	for rows.Next() {
		shipment, err := scanShipment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, *shipment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipments: %w", err)
	}

	return shipments, nil
}

// GetByID retrieves a shipment with its items
func (r *shipmentRepository) GetByID(ctx context.Context, id int64) (*models.ContainerShipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM container_shipments WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	shipment, err := scanShipment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	items, err := r.getItems(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	shipment.Items = items

	return shipment, nil
}

func (r *shipmentRepository) getItems(ctx context.Context, shipmentID int64) ([]models.ContainerItem, error) {
	query := `
		SELECT id, shipment_id, product_id, qty, unit, unit_price
		FROM container_items
		WHERE shipment_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query container items: %w", err)
	}
	defer rows.Close()

	var items []models.ContainerItem
	for rows.Next() {
		var item models.ContainerItem
		err := rows.Scan(&item.ID, &item.ShipmentID, &item.ProductID, &item.Qty, &item.Unit, &item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan container item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Create creates a new shipment with its items
func (r *shipmentRepository) Create(ctx context.Context, shipment *models.ContainerShipment) error {
	query := `
		INSERT INTO container_shipments (uuid, container_no, bl_no, status, etd, eta,
		                                 origin_country, destination_type, destination_site,
		                                 client_name, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if shipment.UUID == uuid.Nil {
		shipment.UUID = uuid.New()
	}
	if shipment.Status == "" {
		shipment.Status = models.ShipmentCreated
	}
	if shipment.CreatedAt.IsZero() {
		shipment.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		shipment.UUID.String(),
		shipment.ContainerNo,
		shipment.BLNo,
		shipment.Status,
		nullDate(shipment.ETD),
		nullDate(shipment.ETA),
		shipment.OriginCountry,
		shipment.DestinationType,
		nullString(shipment.DestinationSite),
		shipment.ClientName,
		shipment.CreatedBy,
		shipment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	shipment.ID = id

	for i := range shipment.Items {
		shipment.Items[i].ShipmentID = id
		if err := r.insertItem(ctx, &shipment.Items[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *shipmentRepository) insertItem(ctx context.Context, item *models.ContainerItem) error {
	query := `
		INSERT INTO container_items (shipment_id, product_id, qty, unit, unit_price)
		VALUES (?, ?, ?, ?, ?)
	`

	if item.Unit == "" {
		item.Unit = "unit"
	}

	result, err := r.db.ExecContext(ctx, query,
		item.ShipmentID, item.ProductID, item.Qty, item.Unit, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to create container item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted item ID: %w", err)
	}
	item.ID = id

	return nil
}

// Update updates an existing shipment (header fields only)
func (r *shipmentRepository) Update(ctx context.Context, shipment *models.ContainerShipment) error {
	query := `
		UPDATE container_shipments
		SET container_no = ?, bl_no = ?, status = ?, etd = ?, eta = ?,
		    origin_country = ?, destination_type = ?, destination_site = ?, client_name = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		shipment.ContainerNo,
		shipment.BLNo,
		shipment.Status,
		nullDate(shipment.ETD),
		nullDate(shipment.ETA),
		shipment.OriginCountry,
		shipment.DestinationType,
		nullString(shipment.DestinationSite),
		shipment.ClientName,
		shipment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
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

// Delete deletes a shipment by ID (items and history cascade)
func (r *shipmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM container_shipments WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete shipment: %w", err)
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

// AddStatusHistory records a status transition entry
func (r *shipmentRepository) AddStatusHistory(ctx context.Context, entry *models.StatusHistory) error {
	query := `
		INSERT INTO status_history (shipment_id, from_status, to_status, changed_by, changed_at, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.ShipmentID, entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.ChangedAt, entry.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted history ID: %w", err)
	}
	entry.ID = id

	return nil
}

// GetStatusHistory retrieves a shipment's status transitions, newest first
func (r *shipmentRepository) GetStatusHistory(ctx context.Context, shipmentID int64) ([]models.StatusHistory, error) {
	query := `
		SELECT id, shipment_id, from_status, to_status, changed_by, changed_at, note
		FROM status_history
		WHERE shipment_id = ?
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var entries []models.StatusHistory
	for rows.Next() {
		var entry models.StatusHistory
		var changedBy sql.NullInt64

		err := rows.Scan(&entry.ID, &entry.ShipmentID, &entry.FromStatus, &entry.ToStatus,
			&changedBy, &entry.ChangedAt, &entry.Note)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}

		if changedBy.Valid {
			cb := changedBy.Int64
			entry.ChangedBy = &cb
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanShipment(scan func(dest ...any) error) (*models.ContainerShipment, error) {
	var shipment models.ContainerShipment
	var rawUUID string
	var etd, eta sql.NullTime
	var destinationSite sql.NullString
	var createdBy sql.NullInt64

	err := scan(
		&shipment.ID,
		&rawUUID,
		&shipment.ContainerNo,
		&shipment.BLNo,
		&shipment.Status,
		&etd,
		&eta,
		&shipment.OriginCountry,
		&shipment.DestinationType,
		&destinationSite,
		&shipment.ClientName,
		&createdBy,
		&shipment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(rawUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid shipment uuid %q: %w", rawUUID, err)
	}
	shipment.UUID = parsed

	if etd.Valid {
		shipment.ETD = &etd.Time
	}
	if eta.Valid {
		shipment.ETA = &eta.Time
	}
	if destinationSite.Valid {
		shipment.DestinationSite = destinationSite.String
	}
	if createdBy.Valid {
		cb := createdBy.Int64
		shipment.CreatedBy = &cb
	}

	return &shipment, nil
}

// nullDate converts an optional date to a driver-friendly value
func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

// nullString converts "" to NULL
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
