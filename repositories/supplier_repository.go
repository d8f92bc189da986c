package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// SupplierRepository interface defines supplier database operations
type SupplierRepository interface {
	GetAll(ctx context.Context) ([]models.Supplier, error)
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// supplierRepository implements SupplierRepository interface
type supplierRepository struct {
	db database.DBTX
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db database.DBTX) SupplierRepository {
	return &supplierRepository{db: db}
}

// GetAll retrieves all suppliers
func (r *supplierRepository) GetAll(ctx context.Context) ([]models.Supplier, error) {
	query := `
		SELECT id, name, contact_email, contact_phone, address, created_at
		FROM suppliers
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var supplier models.Supplier
		err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.ContactEmail,
			&supplier.ContactPhone,
			&supplier.Address,
			&supplier.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// GetByID retrieves a supplier by ID
func (r *supplierRepository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	query := `
		SELECT id, name, contact_email, contact_phone, address, created_at
		FROM suppliers
		WHERE id = ?
	`

	var supplier models.Supplier
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.ContactEmail,
		&supplier.ContactPhone,
		&supplier.Address,
		&supplier.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

// Create creates a new supplier
func (r *supplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_email, contact_phone, address, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		supplier.Name,
		supplier.ContactEmail,
		supplier.ContactPhone,
		supplier.Address,
		supplier.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	supplier.ID = id
	return nil
}

// Update updates an existing supplier
func (r *supplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = ?, contact_email = ?, contact_phone = ?, address = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		supplier.Name,
		supplier.ContactEmail,
		supplier.ContactPhone,
		supplier.Address,
		supplier.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
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

// Delete deletes a supplier by ID
func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM suppliers WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
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
