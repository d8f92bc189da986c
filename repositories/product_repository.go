package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// ProductRepository interface defines product catalog database operations
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
}

// productRepository implements ProductRepository interface
type productRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new product repository
func NewProductRepository(db database.DBTX) ProductRepository {
	return &productRepository{db: db}
}

// GetAll retrieves all products
func (r *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT id, sku, name, description, unit, created_at
		FROM products
		ORDER BY sku ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Name,
			&product.Description,
			&product.Unit,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT id, sku, name, description, unit, created_at FROM products WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetBySKU retrieves a product by SKU
func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	query := `SELECT id, sku, name, description, unit, created_at FROM products WHERE sku = ?`
	return r.getOne(ctx, query, sku)
}

func (r *productRepository) getOne(ctx context.Context, query string, arg any) (*models.Product, error) {
	var product models.Product
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Unit,
		&product.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// Create creates a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, name, description, unit, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	if product.Unit == "" {
		product.Unit = "unit"
	}

	result, err := r.db.ExecContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.Unit,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	product.ID = id
	return nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET sku = ?, name = ?, description = ?, unit = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.Unit,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
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
