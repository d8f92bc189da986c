package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/audit"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// SupplyService interface defines supplier, product and purchase order
// business logic. Suppliers and products are reference data and not audit
// tracked; purchase orders are.
type SupplyService interface {
	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error)
	CreateSupplier(ctx context.Context, form *models.SupplierForm) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, form *models.SupplierForm) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error

	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, form *models.ProductForm) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, form *models.ProductForm) (*models.Product, error)

	GetPurchaseOrders(ctx context.Context, site string) ([]models.PurchaseOrder, error)
	GetPurchaseOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, form *models.PurchaseOrderForm) (*models.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, id int64, form *models.PurchaseOrderForm) (*models.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id int64) error
}

// supplyService implements SupplyService interface
type supplyService struct {
	db          *sql.DB
	repos       *repositories.Repositories
	interceptor *audit.Interceptor
}

// NewSupplyService creates a new supply service
func NewSupplyService(db *sql.DB, repos *repositories.Repositories, interceptor *audit.Interceptor) SupplyService {
	return &supplyService{db: db, repos: repos, interceptor: interceptor}
}

// GetSuppliers retrieves all suppliers
func (s *supplyService) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.repos.Suppliers.GetAll(ctx)
}

// GetSupplierByID retrieves a supplier by ID
func (s *supplyService) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid supplier ID: %d", id)
	}
	return s.repos.Suppliers.GetByID(ctx, id)
}

// CreateSupplier creates a new supplier with validation
func (s *supplyService) CreateSupplier(ctx context.Context, form *models.SupplierForm) (*models.Supplier, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	supplier := &models.Supplier{
		Name:         strings.TrimSpace(form.Name),
		ContactEmail: strings.TrimSpace(form.ContactEmail),
		ContactPhone: strings.TrimSpace(form.ContactPhone),
		Address:      strings.TrimSpace(form.Address),
	}

	if err := s.repos.Suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// UpdateSupplier updates an existing supplier with validation
func (s *supplyService) UpdateSupplier(ctx context.Context, id int64, form *models.SupplierForm) (*models.Supplier, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	supplier, err := s.repos.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = strings.TrimSpace(form.Name)
	supplier.ContactEmail = strings.TrimSpace(form.ContactEmail)
	supplier.ContactPhone = strings.TrimSpace(form.ContactPhone)
	supplier.Address = strings.TrimSpace(form.Address)

	if err := s.repos.Suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier deletes a supplier by ID
func (s *supplyService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.repos.Suppliers.Delete(ctx, id)
}

// GetProducts retrieves the product catalog
func (s *supplyService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.repos.Products.GetAll(ctx)
}

// GetProductByID retrieves a product by ID
func (s *supplyService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid product ID: %d", id)
	}
	return s.repos.Products.GetByID(ctx, id)
}

// CreateProduct creates a new product with SKU uniqueness check
func (s *supplyService) CreateProduct(ctx context.Context, form *models.ProductForm) (*models.Product, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	sku := strings.TrimSpace(form.SKU)
	if _, err := s.repos.Products.GetBySKU(ctx, sku); err == nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("Product with SKU %s already exists", sku)}}
	}

	product := &models.Product{
		SKU:         sku,
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Unit:        form.Unit,
	}

	if err := s.repos.Products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct updates an existing product
func (s *supplyService) UpdateProduct(ctx context.Context, id int64, form *models.ProductForm) (*models.Product, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.SKU = strings.TrimSpace(form.SKU)
	product.Name = strings.TrimSpace(form.Name)
	product.Description = form.Description
	if form.Unit != "" {
		product.Unit = form.Unit
	}

	if err := s.repos.Products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetPurchaseOrders retrieves purchase orders visible to the acting user.
// Privileged roles see every site and may narrow with the site parameter;
// everyone else is pinned to their own site.
func (s *supplyService) GetPurchaseOrders(ctx context.Context, site string) ([]models.PurchaseOrder, error) {
	return s.repos.PurchaseOrders.GetAll(ctx, visibleSite(ctx, site))
}

// GetPurchaseOrderByID retrieves a purchase order with its lines
func (s *supplyService) GetPurchaseOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	po, err := s.repos.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, po.Site) {
		return nil, ErrForbidden
	}
	return po, nil
}

// CreatePurchaseOrder creates a purchase order and its CREATE audit event
// in one transaction.
func (s *supplyService) CreatePurchaseOrder(ctx context.Context, form *models.PurchaseOrderForm) (*models.PurchaseOrder, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if !canAccessSite(ctx, form.Site) {
		return nil, ErrForbidden
	}

	po := &models.PurchaseOrder{
		SupplierID: form.SupplierID,
		Site:       form.Site,
		Status:     form.Status,
		CreatedBy:  actorID(ctx),
	}
	for _, line := range form.Lines {
		po.Lines = append(po.Lines, models.PurchaseOrderLine{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		if err := txRepos.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		return s.interceptor.WithStore(txRepos.Audit).AfterSave(ctx, po, nil, true)
	})
	if err != nil {
		return nil, err
	}

	return po, nil
}

// UpdatePurchaseOrder updates a purchase order's header fields. The audit
// event carries the persisted pre-image captured inside the transaction.
func (s *supplyService) UpdatePurchaseOrder(ctx context.Context, id int64, form *models.PurchaseOrderForm) (*models.PurchaseOrder, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var po *models.PurchaseOrder
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		existing, err := txRepos.PurchaseOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.Site) || !canAccessSite(ctx, form.Site) {
			return ErrForbidden
		}
		before := ic.BeforeSave(ctx, existing)

		existing.SupplierID = form.SupplierID
		existing.Site = form.Site
		if form.Status != "" {
			existing.Status = form.Status
		}
		if err := txRepos.PurchaseOrders.Update(ctx, existing); err != nil {
			return err
		}

		po = existing
		return ic.AfterSave(ctx, existing, before, false)
	})
	if err != nil {
		return nil, err
	}

	return po, nil
}

// DeletePurchaseOrder deletes a purchase order, recording its final state
// in the audit trail before the row disappears.
func (s *supplyService) DeletePurchaseOrder(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)

		existing, err := txRepos.PurchaseOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.Site) {
			return ErrForbidden
		}
		if err := s.interceptor.WithStore(txRepos.Audit).BeforeDelete(ctx, existing); err != nil {
			return err
		}
		return txRepos.PurchaseOrders.Delete(ctx, id)
	})
}

// visibleSite narrows a requested site filter to what the acting user may
// see. Privileged roles pass the request through; others are pinned to
// their own site regardless of what they asked for.
func visibleSite(ctx context.Context, requested string) string {
	actor := actorctx.FromContext(ctx)
	if !actor.Known() || actor.Privileged() {
		return requested
	}
	return actor.Site
}

// canAccessSite reports whether the acting user may touch records of the
// given site. An empty site (unresolvable, HQ-level record) is accessible
// to everyone authenticated.
func canAccessSite(ctx context.Context, site string) bool {
	if site == "" {
		return true
	}
	actor := actorctx.FromContext(ctx)
	if !actor.Known() || actor.Privileged() {
		return true
	}
	return actor.Site == site
}

// actorID returns the acting user's ID for created_by columns, nil outside
// a request.
func actorID(ctx context.Context) *int64 {
	actor := actorctx.FromContext(ctx)
	if !actor.Known() {
		return nil
	}
	id := actor.UserID
	return &id
}
