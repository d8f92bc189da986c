package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/services"
)

// AlertController handles the operations dashboard alert feed
type AlertController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewAlertController creates a new alert controller
func NewAlertController(services *services.Services, log *logrus.Logger) *AlertController {
	return &AlertController{services: services, log: log}
}

// List handles GET /api/alerts
func (ac *AlertController) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := ac.services.Alerts.BuildAlerts(r.Context())
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}
