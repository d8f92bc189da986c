package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoflow/cargoflow/models"
)

// TestChangeStatusFlow verifies a status transition produces the history
// row, the shipment's UPDATE event and the STATUS_CHANGE event together.
func TestChangeStatusFlow(t *testing.T) {
	services, repos := setupTestServices(t)
	ctx := bossContext()

	shipment, err := services.Shipments.CreateShipment(ctx, &models.ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: models.DestinationBranchStock,
		DestinationSite: models.SiteKIN,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentCreated, shipment.Status)

	updated, err := services.Shipments.ChangeStatus(ctx, shipment.ID, &models.StatusChangeForm{
		ToStatus: models.ShipmentInTransit,
		Note:     "left port",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentInTransit, updated.Status)

	history, err := services.Shipments.GetStatusHistory(ctx, shipment.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ShipmentCreated, history[0].FromStatus)
	assert.Equal(t, models.ShipmentInTransit, history[0].ToStatus)
	assert.Equal(t, "left port", history[0].Note)

	events := listAllEvents(t, repos)
	require.Len(t, events, 3) // CREATE, UPDATE, STATUS_CHANGE

	byAction := map[string]models.AuditEvent{}
	for _, e := range events {
		byAction[e.Action] = e
	}

	statusEvent, ok := byAction[models.ActionStatusChange]
	require.True(t, ok)
	expected := fmt.Sprintf("Shipment %d status CREATED -> IN_TRANSIT", shipment.ID)
	assert.Equal(t, expected, statusEvent.Summary)
	assert.Equal(t, models.SiteKIN, statusEvent.Site)
	assert.Nil(t, statusEvent.BeforeJSON)
	assert.Nil(t, statusEvent.AfterJSON)

	updateEvent, ok := byAction[models.ActionUpdate]
	require.True(t, ok)
	var before, after map[string]any
	require.NoError(t, json.Unmarshal(updateEvent.BeforeJSON, &before))
	require.NoError(t, json.Unmarshal(updateEvent.AfterJSON, &after))
	assert.Equal(t, "CREATED", before["status"])
	assert.Equal(t, "IN_TRANSIT", after["status"])
}

// TestChangeStatusNoOp verifies transitioning to the current status writes
// neither history nor events.
func TestChangeStatusNoOp(t *testing.T) {
	services, repos := setupTestServices(t)
	ctx := bossContext()

	shipment, err := services.Shipments.CreateShipment(ctx, &models.ShipmentForm{
		BLNo:            "BL-001",
		OriginCountry:   "CN",
		DestinationType: models.DestinationDirectClient,
		ClientName:      "Client A",
	})
	require.NoError(t, err)

	_, err = services.Shipments.ChangeStatus(ctx, shipment.ID, &models.StatusChangeForm{
		ToStatus: models.ShipmentCreated,
	})
	require.NoError(t, err)

	history, err := services.Shipments.GetStatusHistory(ctx, shipment.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.Len(t, listAllEvents(t, repos), 1) // only the CREATE
}

// TestDirectClientShipmentHasNoSite verifies a direct client shipment's
// events resolve to no site and stay visible to privileged roles only.
func TestDirectClientShipmentHasNoSite(t *testing.T) {
	services, repos := setupTestServices(t)

	_, err := services.Shipments.CreateShipment(bossContext(), &models.ShipmentForm{
		BLNo:            "BL-002",
		OriginCountry:   "TR",
		DestinationType: models.DestinationDirectClient,
		ClientName:      "Client B",
	})
	require.NoError(t, err)

	events := listAllEvents(t, repos)
	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].Site)

	// Branch listings are pinned to their own site and exclude siteless
	// shipments
	shipments, err := services.Shipments.GetShipments(agentContext(models.SitePN), "")
	require.NoError(t, err)
	assert.Empty(t, shipments)

	// Privileged listing sees it
	all, err := services.Shipments.GetShipments(bossContext(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestDeleteShipmentRecordsFinalState verifies the DELETE event carries the
// last persisted state.
func TestDeleteShipmentRecordsFinalState(t *testing.T) {
	services, repos := setupTestServices(t)
	ctx := bossContext()

	shipment, err := services.Shipments.CreateShipment(ctx, &models.ShipmentForm{
		ContainerNo:     "MSKU7654321",
		OriginCountry:   "CN",
		DestinationType: models.DestinationBranchStock,
		DestinationSite: models.SitePN,
	})
	require.NoError(t, err)

	require.NoError(t, services.Shipments.DeleteShipment(ctx, shipment.ID))

	events := listAllEvents(t, repos)
	require.Len(t, events, 2)

	deleteEvent := events[0]
	assert.Equal(t, models.ActionDelete, deleteEvent.Action)
	require.NotNil(t, deleteEvent.BeforeJSON)

	var before map[string]any
	require.NoError(t, json.Unmarshal(deleteEvent.BeforeJSON, &before))
	assert.Equal(t, "MSKU7654321", before["container_no"])
}
