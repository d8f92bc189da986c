package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/cargoflow/cargoflow/audit"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// ShipmentService interface defines container shipment business logic
type ShipmentService interface {
	GetShipments(ctx context.Context, site string) ([]models.ContainerShipment, error)
	GetShipmentByID(ctx context.Context, id int64) (*models.ContainerShipment, error)
	CreateShipment(ctx context.Context, form *models.ShipmentForm) (*models.ContainerShipment, error)
	UpdateShipment(ctx context.Context, id int64, form *models.ShipmentForm) (*models.ContainerShipment, error)
	DeleteShipment(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64, form *models.StatusChangeForm) (*models.ContainerShipment, error)
	GetStatusHistory(ctx context.Context, id int64) ([]models.StatusHistory, error)
}

// shipmentService implements ShipmentService interface
type shipmentService struct {
	db          *sql.DB
	repos       *repositories.Repositories
	interceptor *audit.Interceptor
}

// NewShipmentService creates a new shipment service
func NewShipmentService(db *sql.DB, repos *repositories.Repositories, interceptor *audit.Interceptor) ShipmentService {
	return &shipmentService{db: db, repos: repos, interceptor: interceptor}
}

// GetShipments retrieves shipments visible to the acting user. Shipments
// without a destination site (direct client) are HQ-level and only listed
// for privileged roles when no site filter applies.
func (s *shipmentService) GetShipments(ctx context.Context, site string) ([]models.ContainerShipment, error) {
	return s.repos.Shipments.GetAll(ctx, visibleSite(ctx, site))
}

// GetShipmentByID retrieves a shipment with its items
func (s *shipmentService) GetShipmentByID(ctx context.Context, id int64) (*models.ContainerShipment, error) {
	shipment, err := s.repos.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, shipment.DestinationSite) {
		return nil, ErrForbidden
	}
	return shipment, nil
}

// CreateShipment creates a shipment and its CREATE audit event in one
// transaction.
func (s *shipmentService) CreateShipment(ctx context.Context, form *models.ShipmentForm) (*models.ContainerShipment, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if !canAccessSite(ctx, form.DestinationSite) {
		return nil, ErrForbidden
	}

	shipment := shipmentFromForm(form)
	shipment.CreatedBy = actorID(ctx)

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		if err := txRepos.Shipments.Create(ctx, shipment); err != nil {
			return err
		}
		return s.interceptor.WithStore(txRepos.Audit).AfterSave(ctx, shipment, nil, true)
	})
	if err != nil {
		return nil, err
	}

	return shipment, nil
}

// UpdateShipment updates a shipment's header fields, recording the persisted
// pre-image in the audit trail. Items are fixed at creation; status moves
// through ChangeStatus.
func (s *shipmentService) UpdateShipment(ctx context.Context, id int64, form *models.ShipmentForm) (*models.ContainerShipment, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var shipment *models.ContainerShipment
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		existing, err := txRepos.Shipments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.DestinationSite) || !canAccessSite(ctx, form.DestinationSite) {
			return ErrForbidden
		}
		before := ic.BeforeSave(ctx, existing)

		applyShipmentForm(existing, form)
		if err := txRepos.Shipments.Update(ctx, existing); err != nil {
			return err
		}

		shipment = existing
		return ic.AfterSave(ctx, existing, before, false)
	})
	if err != nil {
		return nil, err
	}

	return shipment, nil
}

// DeleteShipment deletes a shipment, recording its final state in the audit
// trail before the row disappears.
func (s *shipmentService) DeleteShipment(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)

		existing, err := txRepos.Shipments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.DestinationSite) {
			return ErrForbidden
		}
		if err := s.interceptor.WithStore(txRepos.Audit).BeforeDelete(ctx, existing); err != nil {
			return err
		}
		return txRepos.Shipments.Delete(ctx, id)
	})
}

// ChangeStatus moves a shipment to a new status. One transaction covers the
// shipment update, the status history row, the shipment's UPDATE audit event
// and the STATUS_CHANGE audit event.
func (s *shipmentService) ChangeStatus(ctx context.Context, id int64, form *models.StatusChangeForm) (*models.ContainerShipment, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var shipment *models.ContainerShipment
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepos := s.repos.WithTx(tx)
		ic := s.interceptor.WithStore(txRepos.Audit)

		existing, err := txRepos.Shipments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !canAccessSite(ctx, existing.DestinationSite) {
			return ErrForbidden
		}
		if existing.Status == form.ToStatus {
			shipment = existing
			return nil
		}

		before := ic.BeforeSave(ctx, existing)
		fromStatus := existing.Status
		existing.Status = form.ToStatus
		if err := txRepos.Shipments.Update(ctx, existing); err != nil {
			return err
		}

		entry := &models.StatusHistory{
			ShipmentID: existing.ID,
			FromStatus: fromStatus,
			ToStatus:   form.ToStatus,
			ChangedBy:  actorID(ctx),
			Note:       form.Note,
		}
		if err := txRepos.Shipments.AddStatusHistory(ctx, entry); err != nil {
			return err
		}

		if err := ic.AfterSave(ctx, existing, before, false); err != nil {
			return err
		}
		if err := ic.StatusChanged(ctx, existing, fromStatus, form.ToStatus); err != nil {
			return err
		}

		shipment = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return shipment, nil
}

// GetStatusHistory retrieves a shipment's status timeline
func (s *shipmentService) GetStatusHistory(ctx context.Context, id int64) ([]models.StatusHistory, error) {
	shipment, err := s.repos.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessSite(ctx, shipment.DestinationSite) {
		return nil, ErrForbidden
	}
	return s.repos.Shipments.GetStatusHistory(ctx, id)
}

func shipmentFromForm(form *models.ShipmentForm) *models.ContainerShipment {
	shipment := &models.ContainerShipment{}
	applyShipmentForm(shipment, form)
	for _, item := range form.Items {
		shipment.Items = append(shipment.Items, models.ContainerItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		})
	}
	return shipment
}

func applyShipmentForm(shipment *models.ContainerShipment, form *models.ShipmentForm) {
	shipment.ContainerNo = form.ContainerNo
	shipment.BLNo = form.BLNo
	shipment.OriginCountry = form.OriginCountry
	shipment.DestinationType = form.DestinationType
	shipment.DestinationSite = form.DestinationSite
	shipment.ClientName = form.ClientName
	shipment.ETD = parseOptionalDate(form.ETD)
	shipment.ETA = parseOptionalDate(form.ETA)
}

// parseOptionalDate returns nil for "" or unparseable input. Validate has
// already rejected malformed dates by the time this runs.
func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := models.ParseDate(value)
	if err != nil {
		return nil
	}
	return &t
}
