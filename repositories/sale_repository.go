package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// SaleRepository interface defines sale database operations
type SaleRepository interface {
	GetAll(ctx context.Context, site string) ([]models.Sale, error)
	GetByID(ctx context.Context, id int64) (*models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id int64) error
}

// saleRepository implements SaleRepository interface
type saleRepository struct {
	db database.DBTX
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db database.DBTX) SaleRepository {
	return &saleRepository{db: db}
}

// GetAll retrieves sales, optionally filtered by site, newest first
func (r *saleRepository) GetAll(ctx context.Context, site string) ([]models.Sale, error) {
	query := `
		SELECT id, site, client_local, created_by, created_at
		FROM sales
	`
	var args []any
	if site != "" {
		query += ` WHERE site = ?`
		args = append(args, site)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		sale, err := scanSale(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}

// GetByID retrieves a sale with its lines
func (r *saleRepository) GetByID(ctx context.Context, id int64) (*models.Sale, error) {
	query := `SELECT id, site, client_local, created_by, created_at FROM sales WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	sale, err := scanSale(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	lines, err := r.getLines(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines

	return sale, nil
}

func (r *saleRepository) getLines(ctx context.Context, saleID int64) ([]models.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, qty, unit_price
		FROM sale_lines
		WHERE sale_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	var lines []models.SaleLine
	for rows.Next() {
		var line models.SaleLine
		err := rows.Scan(&line.ID, &line.SaleID, &line.ProductID, &line.Qty, &line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Create creates a new sale with its lines
func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (site, client_local, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`

	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		sale.Site, sale.ClientLocal, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	sale.ID = id

	for i := range sale.Lines {
		sale.Lines[i].SaleID = id
		if err := r.insertLine(ctx, &sale.Lines[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *saleRepository) insertLine(ctx context.Context, line *models.SaleLine) error {
	query := `
		INSERT INTO sale_lines (sale_id, product_id, qty, unit_price)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		line.SaleID, line.ProductID, line.Qty, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted line ID: %w", err)
	}
	line.ID = id

	return nil
}

// Delete deletes a sale by ID (lines cascade)
func (r *saleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM sales WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
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

func scanSale(scan func(dest ...any) error) (*models.Sale, error) {
	var sale models.Sale
	var createdBy sql.NullInt64

	err := scan(&sale.ID, &sale.Site, &sale.ClientLocal, &createdBy, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		id := createdBy.Int64
		sale.CreatedBy = &id
	}

	return &sale, nil
}
