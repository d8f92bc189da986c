package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoflow/cargoflow/models"
)

// TestUploadDocumentEmitsBothEvents verifies one upload yields a CREATE and
// an UPLOAD_DOC event, both resolved to the linked shipment's site.
func TestUploadDocumentEmitsBothEvents(t *testing.T) {
	services, repos := setupTestServices(t)
	ctx := bossContext()

	shipment, err := services.Shipments.CreateShipment(ctx, &models.ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: models.DestinationBranchStock,
		DestinationSite: models.SitePN,
	})
	require.NoError(t, err)

	doc, err := services.Documents.Upload(ctx, &models.DocumentForm{
		LinkedShipmentID: &shipment.ID,
		Title:            "BL MSKU1234567",
		DocType:          models.DocTypeBL,
		FilePath:         "uploads/bl-msku1234567.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.True(t, doc.IsCurrent)

	events := listAllEvents(t, repos)
	require.Len(t, events, 3) // shipment CREATE, document CREATE, UPLOAD_DOC

	actions := map[string]models.AuditEvent{}
	for _, e := range events {
		if e.EntityType == "Document" {
			actions[e.Action] = e
		}
	}
	require.Len(t, actions, 2)
	assert.Equal(t, models.SitePN, actions[models.ActionCreate].Site)
	assert.Equal(t, models.SitePN, actions[models.ActionUploadDoc].Site)
}

// TestUploadDocumentVersioning verifies a second upload under the same title
// takes the next version and demotes the first.
func TestUploadDocumentVersioning(t *testing.T) {
	services, _ := setupTestServices(t)
	ctx := bossContext()

	first, err := services.Documents.Upload(ctx, &models.DocumentForm{
		Title:    "Packing list week 35",
		DocType:  models.DocTypePackingList,
		FilePath: "uploads/pl-w35-v1.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := services.Documents.Upload(ctx, &models.DocumentForm{
		Title:    "Packing list week 35",
		DocType:  models.DocTypePackingList,
		FilePath: "uploads/pl-w35-v2.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.True(t, second.IsCurrent)

	reloaded, err := services.Documents.GetDocumentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsCurrent)
}

// TestDocumentVisibilityFollowsLinkedSite verifies branch users only see
// documents whose linked record resolves to their site.
func TestDocumentVisibilityFollowsLinkedSite(t *testing.T) {
	services, _ := setupTestServices(t)
	boss := bossContext()

	shipment, err := services.Shipments.CreateShipment(boss, &models.ShipmentForm{
		ContainerNo:     "MSKU1234567",
		OriginCountry:   "CN",
		DestinationType: models.DestinationBranchStock,
		DestinationSite: models.SitePN,
	})
	require.NoError(t, err)

	doc, err := services.Documents.Upload(boss, &models.DocumentForm{
		LinkedShipmentID: &shipment.ID,
		Title:            "BL MSKU1234567",
		DocType:          models.DocTypeBL,
		FilePath:         "uploads/bl.pdf",
	})
	require.NoError(t, err)

	// Unlinked documents resolve to no site and stay visible everywhere
	_, err = services.Documents.Upload(boss, &models.DocumentForm{
		Title:    "Company templates",
		DocType:  models.DocTypeOther,
		FilePath: "uploads/templates.zip",
	})
	require.NoError(t, err)

	pnDocs, err := services.Documents.GetDocuments(agentContext(models.SitePN))
	require.NoError(t, err)
	assert.Len(t, pnDocs, 2)

	dlaDocs, err := services.Documents.GetDocuments(agentContext(models.SiteDLA))
	require.NoError(t, err)
	require.Len(t, dlaDocs, 1)
	assert.Equal(t, "Company templates", dlaDocs[0].Title)

	_, err = services.Documents.GetDocumentByID(agentContext(models.SiteDLA), doc.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

// TestDeleteDocumentRecordsFinalState verifies the DELETE event carries the
// stored metadata.
func TestDeleteDocumentRecordsFinalState(t *testing.T) {
	services, repos := setupTestServices(t)
	ctx := bossContext()

	doc, err := services.Documents.Upload(ctx, &models.DocumentForm{
		Title:    "Customs declaration",
		DocType:  models.DocTypeCustoms,
		FilePath: "uploads/customs.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, services.Documents.DeleteDocument(ctx, doc.ID))

	events := listAllEvents(t, repos)
	require.Len(t, events, 3)
	assert.Equal(t, models.ActionDelete, events[0].Action)
	assert.NotNil(t, events[0].BeforeJSON)
	assert.Nil(t, events[0].AfterJSON)
}
