package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// ShipmentController handles container shipments and their status timeline
type ShipmentController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewShipmentController creates a new shipment controller
func NewShipmentController(services *services.Services, log *logrus.Logger) *ShipmentController {
	return &ShipmentController{services: services, log: log}
}

// List handles GET /api/shipments
func (sc *ShipmentController) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := sc.services.Shipments.GetShipments(r.Context(), r.URL.Query().Get("site"))
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, shipments)
}

// Get handles GET /api/shipments/{id}
func (sc *ShipmentController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	shipment, err := sc.services.Shipments.GetShipmentByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, shipment)
}

// Create handles POST /api/shipments
func (sc *ShipmentController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.ShipmentForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shipment, err := sc.services.Shipments.CreateShipment(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, shipment)
}

// Update handles PUT /api/shipments/{id}
func (sc *ShipmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.ShipmentForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shipment, err := sc.services.Shipments.UpdateShipment(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, shipment)
}

// Delete handles DELETE /api/shipments/{id}
func (sc *ShipmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := sc.services.Shipments.DeleteShipment(r.Context(), id); err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// ChangeStatus handles POST /api/shipments/{id}/status
func (sc *ShipmentController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.StatusChangeForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shipment, err := sc.services.Shipments.ChangeStatus(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, shipment)
}

// StatusHistory handles GET /api/shipments/{id}/history
func (sc *ShipmentController) StatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	history, err := sc.services.Shipments.GetStatusHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
