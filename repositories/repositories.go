package repositories

import (
	"database/sql"

	"github.com/cargoflow/cargoflow/database"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users          UserRepository
	Suppliers      SupplierRepository
	Products       ProductRepository
	PurchaseOrders PurchaseOrderRepository
	Shipments      ShipmentRepository
	Documents      DocumentRepository
	Stock          StockRepository
	Sales          SaleRepository
	Chat           ChatRepository
	Audit          AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db database.DBTX) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(db),
		Suppliers:      NewSupplierRepository(db),
		Products:       NewProductRepository(db),
		PurchaseOrders: NewPurchaseOrderRepository(db),
		Shipments:      NewShipmentRepository(db),
		Documents:      NewDocumentRepository(db),
		Stock:          NewStockRepository(db),
		Sales:          NewSaleRepository(db),
		Chat:           NewChatRepository(db),
		Audit:          NewAuditRepository(db),
	}
}

// WithTx returns a repository set bound to the given transaction. Used by
// services so a business mutation and its audit event share one commit.
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return NewRepositories(tx)
}
