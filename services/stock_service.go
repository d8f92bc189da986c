package services

import (
	"context"
	"database/sql"

	"github.com/cargoflow/cargoflow/audit"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// StockService interface defines stock ledger and local sale business logic
type StockService interface {
	GetMovements(ctx context.Context, site string) ([]models.StockMovement, error)
	GetMovementByID(ctx context.Context, id int64) (*models.StockMovement, error)
	RecordMovement(ctx context.Context, form *models.StockMovementForm) (*models.StockMovement, error)
	DeleteMovement(ctx context.Context, id int64) error
	SiteBalance(ctx context.Context, site string, productID int64) (int, error)

	GetSales(ctx context.Context, site string) ([]models.Sale, error)
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	RecordSale(ctx context.Context, form *models.SaleForm) (*models.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
}

// stockService implements StockService interface
type stockService struct {
	db          *sql.DB
	repos       *repositories.Repositories
	interceptor *audit.Interceptor
}

// NewStockService creates a new stock service
func NewStockService(db *sql.DB, repos *repositories.Repositories, interceptor *audit.Interceptor) StockService {
	return &stockService{db: db, repos: repos, interceptor: interceptor}
}

// GetMovements retrieves stock movements visible to the acting user
func (s *stockService) GetMovements(ctx context.Context, site string) ([]models.StockMovement, error) {
	return s.repos.Stock.GetAll(ctx, visibleSite(ctx, site))
}

// GetMovementByID retrieves a stock movement by ID
func (s *stockService) GetMovementByID(ctx context.Context, id int64) (*models.StockMovement, error) {
	movement, err := s.repos.Stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, movement.Site) {
		return nil, ErrForbidden
	}
	return movement, nil
}

// RecordMovement writes a stock ledger entry. One transaction covers the
// row, its CREATE audit event and the STOCK_MOVE audit event.
func (s *stockService) RecordMovement(ctx context.Context, form *models.StockMovementForm) (*models.StockMovement, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if !canAccessSite(ctx, form.Site) {
		return nil, ErrForbidden
	}

	movement := &models.StockMovement{
		MovementType:      form.MovementType,
		Site:              form.Site,
		ProductID:         form.ProductID,
		Qty:               form.Qty,
		RelatedShipmentID: form.RelatedShipmentID,
		CreatedBy:         actorID(ctx),
		Note:              form.Note,
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		if err := txRepos.Stock.Create(ctx, movement); err != nil {
			return err
		}
		if err := ic.AfterSave(ctx, movement, nil, true); err != nil {
			return err
		}
		return ic.StockMoved(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// DeleteMovement removes a ledger entry, recording its final state in the
// audit trail before the row disappears. Corrections are normally new
// ADJUSTMENT entries; deletion exists for records entered in error.
func (s *stockService) DeleteMovement(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)

		existing, err := txRepos.Stock.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.Site) {
			return ErrForbidden
		}
		if err := s.interceptor.WithStore(txRepos.Audit).BeforeDelete(ctx, existing); err != nil {
			return err
		}
		return txRepos.Stock.Delete(ctx, id)
	})
}

// SiteBalance computes a product's net quantity at a site
func (s *stockService) SiteBalance(ctx context.Context, site string, productID int64) (int, error) {
	if !canAccessSite(ctx, site) {
		return 0, ErrForbidden
	}
	return s.repos.Stock.SiteBalance(ctx, site, productID)
}

// GetSales retrieves sales visible to the acting user
func (s *stockService) GetSales(ctx context.Context, site string) ([]models.Sale, error) {
	return s.repos.Sales.GetAll(ctx, visibleSite(ctx, site))
}

// GetSaleByID retrieves a sale with its lines
func (s *stockService) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	sale, err := s.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, sale.Site) {
		return nil, ErrForbidden
	}
	return sale, nil
}

// RecordSale writes a local sale with its lines. One transaction covers the
// rows, the CREATE audit event and the SALE audit event.
func (s *stockService) RecordSale(ctx context.Context, form *models.SaleForm) (*models.Sale, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if !canAccessSite(ctx, form.Site) {
		return nil, ErrForbidden
	}

	sale := &models.Sale{
		Site:        form.Site,
		ClientLocal: form.ClientLocal,
		CreatedBy:   actorID(ctx),
	}
	for _, line := range form.Lines {
		sale.Lines = append(sale.Lines, models.SaleLine{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		if err := txRepos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := ic.AfterSave(ctx, sale, nil, true); err != nil {
			return err
		}
		return ic.SaleRecorded(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// DeleteSale removes a sale, recording its final state in the audit trail
// before the row disappears.
func (s *stockService) DeleteSale(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)

		existing, err := txRepos.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.Site) {
			return ErrForbidden
		}
		if err := s.interceptor.WithStore(txRepos.Audit).BeforeDelete(ctx, existing); err != nil {
			return err
		}
		return txRepos.Sales.Delete(ctx, id)
	})
}
