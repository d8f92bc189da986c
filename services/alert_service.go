package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// Alert thresholds. A shipment still in transit this many days after
// creation is flagged, and every shipment is expected to carry the required
// document types.
const (
	alertsMaxItems    = 10
	alertsTransitDays = 7
)

var alertRequiredDocTypes = []string{models.DocTypeBL, models.DocTypeInvoice}

// AlertService interface defines the dashboard alert builder. Alerts are
// computed over the shipments visible to the acting user, so branch users
// only ever see their own site flagged.
type AlertService interface {
	BuildAlerts(ctx context.Context) ([]models.Alert, error)
}

// alertService implements AlertService interface
type alertService struct {
	repos *repositories.Repositories
}

// NewAlertService creates a new alert service
func NewAlertService(repos *repositories.Repositories) AlertService {
	return &alertService{repos: repos}
}

// BuildAlerts collects the current alerts, most severe first, capped at ten:
// shipments stuck in transit, shipments without a destination site, and
// shipments missing required documents.
func (s *alertService) BuildAlerts(ctx context.Context) ([]models.Alert, error) {
	shipments, err := s.repos.Shipments.GetAll(ctx, visibleSite(ctx, ""))
	if err != nil {
		return nil, err
	}

	var alerts []models.Alert
	alerts = append(alerts, lateTransitAlerts(shipments)...)
	alerts = append(alerts, missingDestinationAlerts(shipments)...)

	missingDocs, err := s.missingDocumentAlerts(ctx, shipments)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, missingDocs...)

	rank := map[string]int{models.AlertCritical: 0, models.AlertImportant: 1, models.AlertInfo: 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		return rank[alerts[i].Level] < rank[alerts[j].Level]
	})

	if len(alerts) > alertsMaxItems {
		alerts = alerts[:alertsMaxItems]
	}
	return alerts, nil
}

// lateTransitAlerts flags shipments in transit since before the cutoff,
// oldest first.
func lateTransitAlerts(shipments []models.ContainerShipment) []models.Alert {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -alertsTransitDays)

	var late []models.ContainerShipment
	for _, shipment := range shipments {
		if shipment.Status == models.ShipmentInTransit && shipment.CreatedAt.Before(cutoff) {
			late = append(late, shipment)
		}
	}
	sort.Slice(late, func(i, j int) bool {
		return late[i].CreatedAt.Before(late[j].CreatedAt)
	})

	var alerts []models.Alert
	for _, shipment := range capShipments(late) {
		alerts = append(alerts, models.Alert{
			Level:         models.AlertCritical,
			Title:         "Transit delay",
			Message:       fmt.Sprintf("In transit for more than %d days", alertsTransitDays),
			ShipmentID:    shipment.ID,
			ContainerCode: shipment.ContainerNo,
			URL:           shipmentURL(shipment.ID),
		})
	}
	return alerts
}

// missingDestinationAlerts flags shipments without a destination site,
// newest first.
func missingDestinationAlerts(shipments []models.ContainerShipment) []models.Alert {
	var missing []models.ContainerShipment
	for _, shipment := range shipments {
		if shipment.DestinationSite == "" {
			missing = append(missing, shipment)
		}
	}

	var alerts []models.Alert
	for _, shipment := range capShipments(missing) {
		alerts = append(alerts, models.Alert{
			Level:         models.AlertImportant,
			Title:         "Missing destination",
			Message:       "No destination site",
			ShipmentID:    shipment.ID,
			ContainerCode: shipment.ContainerNo,
			URL:           shipmentURL(shipment.ID),
		})
	}
	return alerts
}

// missingDocumentAlerts flags the newest shipments lacking any of the
// required document types.
func (s *alertService) missingDocumentAlerts(ctx context.Context, shipments []models.ContainerShipment) ([]models.Alert, error) {
	ids := make([]int64, 0, len(shipments))
	for _, shipment := range shipments {
		ids = append(ids, shipment.ID)
	}

	present, err := s.repos.Documents.ShipmentDocTypes(ctx, ids, alertRequiredDocTypes)
	if err != nil {
		return nil, err
	}

	var alerts []models.Alert
	for _, shipment := range capShipments(shipments) {
		var missing []string
		for _, docType := range alertRequiredDocTypes {
			if !containsDocType(present[shipment.ID], docType) {
				missing = append(missing, docType)
			}
		}
		if len(missing) > 0 {
			alerts = append(alerts, models.Alert{
				Level:         models.AlertImportant,
				Title:         "Missing documents",
				Message:       "Missing: " + strings.Join(missing, ", "),
				ShipmentID:    shipment.ID,
				ContainerCode: shipment.ContainerNo,
				URL:           shipmentURL(shipment.ID),
			})
		}
	}
	return alerts, nil
}

func capShipments(shipments []models.ContainerShipment) []models.ContainerShipment {
	if len(shipments) > alertsMaxItems {
		return shipments[:alertsMaxItems]
	}
	return shipments
}

func containsDocType(docTypes []string, docType string) bool {
	for _, d := range docTypes {
		if d == docType {
			return true
		}
	}
	return false
}

func shipmentURL(id int64) string {
	return fmt.Sprintf("/api/shipments/%d", id)
}
