package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// PurchaseOrderRepository interface defines purchase order database operations
type PurchaseOrderRepository interface {
	GetAll(ctx context.Context, site string) ([]models.PurchaseOrder, error)
	GetByID(ctx context.Context, id int64) (*models.PurchaseOrder, error)
	Create(ctx context.Context, po *models.PurchaseOrder) error
	Update(ctx context.Context, po *models.PurchaseOrder) error
	Delete(ctx context.Context, id int64) error
}

// purchaseOrderRepository implements PurchaseOrderRepository interface
type purchaseOrderRepository struct {
	db database.DBTX
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db database.DBTX) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

// GetAll retrieves purchase orders, optionally filtered by site
func (r *purchaseOrderRepository) GetAll(ctx context.Context, site string) ([]models.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, site, status, created_by, created_at
		FROM purchase_orders
	`
	var args []any
	if site != "" {
		query += ` WHERE site = ?`
		args = append(args, site)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []models.PurchaseOrder
	for rows.Next() {
		var po models.PurchaseOrder
		var createdBy sql.NullInt64

		err := rows.Scan(&po.ID, &po.SupplierID, &po.Site, &po.Status, &createdBy, &po.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}

		if createdBy.Valid {
			id := createdBy.Int64
			po.CreatedBy = &id
		}

		orders = append(orders, po)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves a purchase order with its lines
func (r *purchaseOrderRepository) GetByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, site, status, created_by, created_at
		FROM purchase_orders
		WHERE id = ?
	`

	var po models.PurchaseOrder
	var createdBy sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&po.ID, &po.SupplierID, &po.Site, &po.Status, &createdBy, &po.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	if createdBy.Valid {
		cb := createdBy.Int64
		po.CreatedBy = &cb
	}

	lines, err := r.getLines(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines

	return &po, nil
}

func (r *purchaseOrderRepository) getLines(ctx context.Context, poID int64) ([]models.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, product_id, qty, unit_price
		FROM purchase_order_lines
		WHERE purchase_order_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.PurchaseOrderLine
	for rows.Next() {
		var line models.PurchaseOrderLine
		err := rows.Scan(&line.ID, &line.PurchaseOrderID, &line.ProductID, &line.Qty, &line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Create creates a new purchase order with its lines
func (r *purchaseOrderRepository) Create(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (supplier_id, site, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	if po.Status == "" {
		po.Status = models.POStatusDraft
	}

	result, err := r.db.ExecContext(ctx, query,
		po.SupplierID, po.Site, po.Status, po.CreatedBy, po.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	po.ID = id

	for i := range po.Lines {
		po.Lines[i].PurchaseOrderID = id
		if err := r.insertLine(ctx, &po.Lines[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *purchaseOrderRepository) insertLine(ctx context.Context, line *models.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_order_lines (purchase_order_id, product_id, qty, unit_price)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		line.PurchaseOrderID, line.ProductID, line.Qty, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase order line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted line ID: %w", err)
	}
	line.ID = id

	return nil
}

// Update updates an existing purchase order (header fields only)
func (r *purchaseOrderRepository) Update(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET supplier_id = ?, site = ?, status = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, po.SupplierID, po.Site, po.Status, po.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order: %w", err)
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

// Delete deletes a purchase order by ID (lines cascade)
func (r *purchaseOrderRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM purchase_orders WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
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
