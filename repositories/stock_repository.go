package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// StockRepository interface defines stock ledger database operations
type StockRepository interface {
	GetAll(ctx context.Context, site string) ([]models.StockMovement, error)
	GetByID(ctx context.Context, id int64) (*models.StockMovement, error)
	Create(ctx context.Context, movement *models.StockMovement) error
	Delete(ctx context.Context, id int64) error
	SiteBalance(ctx context.Context, site string, productID int64) (int, error)
}

// stockRepository implements StockRepository interface
type stockRepository struct {
	db database.DBTX
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db database.DBTX) StockRepository {
	return &stockRepository{db: db}
}

const stockMovementSelect = `
	SELECT m.id, m.movement_type, m.site, m.product_id, m.qty,
	       m.related_shipment_id, m.created_by, m.created_at, m.note,
	       s.id, s.destination_site
	FROM stock_movements m
	LEFT JOIN container_shipments s ON s.id = m.related_shipment_id
`

// GetAll retrieves stock movements, optionally filtered by site, newest first
func (r *stockRepository) GetAll(ctx context.Context, site string) ([]models.StockMovement, error) {
	query := stockMovementSelect
	var args []any
	if site != "" {
		query += ` WHERE m.site = ?`
		args = append(args, site)
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		movement, err := scanStockMovement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, *movement)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}

	return movements, nil
}

// GetByID retrieves a stock movement by ID
func (r *stockRepository) GetByID(ctx context.Context, id int64) (*models.StockMovement, error) {
	query := stockMovementSelect + ` WHERE m.id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	movement, err := scanStockMovement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock movement: %w", err)
	}

	return movement, nil
}

// Create records a new stock movement
func (r *stockRepository) Create(ctx context.Context, movement *models.StockMovement) error {
	query := `
		INSERT INTO stock_movements (movement_type, site, product_id, qty,
		                             related_shipment_id, created_by, created_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		movement.MovementType,
		movement.Site,
		movement.ProductID,
		movement.Qty,
		movement.RelatedShipmentID,
		movement.CreatedBy,
		movement.CreatedAt,
		movement.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to create stock movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	movement.ID = id
	return nil
}

// Delete deletes a stock movement by ID
func (r *stockRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM stock_movements WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock movement: %w", err)
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

// SiteBalance computes the net quantity of a product at a site.
// OUT movements subtract, everything else adds (adjustments carry their sign
// in qty).
func (r *stockRepository) SiteBalance(ctx context.Context, site string, productID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN movement_type = ? THEN -qty ELSE qty END), 0)
		FROM stock_movements
		WHERE site = ? AND product_id = ?
	`

	var balance int
	err := r.db.QueryRowContext(ctx, query, models.MovementOut, site, productID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to compute site balance: %w", err)
	}

	return balance, nil
}

func scanStockMovement(scan func(dest ...any) error) (*models.StockMovement, error) {
	var movement models.StockMovement
	var relatedShipmentID, createdBy, shipmentID sql.NullInt64
	var shipmentSite sql.NullString

	err := scan(
		&movement.ID,
		&movement.MovementType,
		&movement.Site,
		&movement.ProductID,
		&movement.Qty,
		&relatedShipmentID,
		&createdBy,
		&movement.CreatedAt,
		&movement.Note,
		&shipmentID,
		&shipmentSite,
	)
	if err != nil {
		return nil, err
	}

	if relatedShipmentID.Valid {
		id := relatedShipmentID.Int64
		movement.RelatedShipmentID = &id
	}
	if createdBy.Valid {
		id := createdBy.Int64
		movement.CreatedBy = &id
	}
	if shipmentID.Valid {
		movement.RelatedShipment = &models.ContainerShipment{
			ID:              shipmentID.Int64,
			DestinationSite: shipmentSite.String,
		}
	}

	return &movement, nil
}
