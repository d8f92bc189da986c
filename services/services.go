package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/audit"
	"github.com/cargoflow/cargoflow/repositories"
)

// ErrForbidden is returned when the acting user is not allowed to perform
// the requested operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredentials is returned for failed login attempts. It is
// deliberately the same for unknown email, wrong password and disabled
// accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries the individual problems of a rejected form.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, ", ")
}

// Services holds all service instances
type Services struct {
	Users     UserService
	Supply    SupplyService
	Shipments ShipmentService
	Documents DocumentService
	Stock     StockService
	Chat      ChatService
	Alerts    AlertService
	Audit     AuditService
}

// NewServices creates and initializes all service instances. The raw DB
// handle is needed alongside the repositories because tracked mutations
// open transactions spanning the business write and its audit event.
func NewServices(db *sql.DB, repos *repositories.Repositories, log *logrus.Logger) *Services {
	interceptor := audit.NewInterceptor(repos.Audit, log)

	return &Services{
		Users:     NewUserService(repos.Users),
		Supply:    NewSupplyService(db, repos, interceptor),
		Shipments: NewShipmentService(db, repos, interceptor),
		Documents: NewDocumentService(db, repos, interceptor),
		Stock:     NewStockService(db, repos, interceptor),
		Chat:      NewChatService(repos),
		Alerts:    NewAlertService(repos),
		Audit:     NewAuditService(repos.Audit),
	}
}
