package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// SupplyController handles suppliers, products and purchase orders
type SupplyController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewSupplyController creates a new supply controller
func NewSupplyController(services *services.Services, log *logrus.Logger) *SupplyController {
	return &SupplyController{services: services, log: log}
}

// ListSuppliers handles GET /api/suppliers
func (sc *SupplyController) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := sc.services.Supply.GetSuppliers(r.Context())
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/suppliers/{id}
func (sc *SupplyController) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	supplier, err := sc.services.Supply.GetSupplierByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// CreateSupplier handles POST /api/suppliers
func (sc *SupplyController) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var form models.SupplierForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := sc.services.Supply.CreateSupplier(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

// UpdateSupplier handles PUT /api/suppliers/{id}
func (sc *SupplyController) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.SupplierForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := sc.services.Supply.UpdateSupplier(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /api/suppliers/{id}
func (sc *SupplyController) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := sc.services.Supply.DeleteSupplier(r.Context(), id); err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// ListProducts handles GET /api/products
func (sc *SupplyController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := sc.services.Supply.GetProducts(r.Context())
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (sc *SupplyController) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	product, err := sc.services.Supply.GetProductByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/products
func (sc *SupplyController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form models.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := sc.services.Supply.CreateProduct(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (sc *SupplyController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := sc.services.Supply.UpdateProduct(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ListPurchaseOrders handles GET /api/purchase-orders
func (sc *SupplyController) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := sc.services.Supply.GetPurchaseOrders(r.Context(), r.URL.Query().Get("site"))
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetPurchaseOrder handles GET /api/purchase-orders/{id}
func (sc *SupplyController) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	po, err := sc.services.Supply.GetPurchaseOrderByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// CreatePurchaseOrder handles POST /api/purchase-orders
func (sc *SupplyController) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var form models.PurchaseOrderForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	po, err := sc.services.Supply.CreatePurchaseOrder(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, po)
}

// UpdatePurchaseOrder handles PUT /api/purchase-orders/{id}
func (sc *SupplyController) UpdatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.PurchaseOrderForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	po, err := sc.services.Supply.UpdatePurchaseOrder(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// DeletePurchaseOrder handles DELETE /api/purchase-orders/{id}
func (sc *SupplyController) DeletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := sc.services.Supply.DeletePurchaseOrder(r.Context(), id); err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}
