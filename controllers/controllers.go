package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/repositories"
	"github.com/cargoflow/cargoflow/services"
)

// envelope is the uniform JSON response shape
type envelope struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// respondJSON writes a success envelope
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Status: "ok", Data: data})
}

// respondError writes an error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

// respondServiceError maps service layer failures to HTTP statuses:
// validation problems to 400, unknown records to 404, access denials to
// 403 and anything else to 500.
func respondServiceError(w http.ResponseWriter, log *logrus.Logger, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(envelope{
			Status:  "error",
			Message: "validation failed",
			Errors:  validationErr.Problems,
		})
	case errors.Is(err, repositories.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		log.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON parses the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathID extracts the numeric {id} path parameter
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Supply    *SupplyController
	Shipments *ShipmentController
	Documents *DocumentController
	Stock     *StockController
	Chat      *ChatController
	Alerts    *AlertController
	Audit     *AuditController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, log *logrus.Logger) *Controllers {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controllers{
		Auth:      NewAuthController(services, log),
		Supply:    NewSupplyController(services, log),
		Shipments: NewShipmentController(services, log),
		Documents: NewDocumentController(services, log),
		Stock:     NewStockController(services, log),
		Chat:      NewChatController(services, log),
		Alerts:    NewAlertController(services, log),
		Audit:     NewAuditController(services, log),
	}
}
