package controllers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// StockController handles stock movements, balances and local sales
type StockController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewStockController creates a new stock controller
func NewStockController(services *services.Services, log *logrus.Logger) *StockController {
	return &StockController{services: services, log: log}
}

// ListMovements handles GET /api/stock/movements
func (sc *StockController) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := sc.services.Stock.GetMovements(r.Context(), r.URL.Query().Get("site"))
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, movements)
}

// GetMovement handles GET /api/stock/movements/{id}
func (sc *StockController) GetMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	movement, err := sc.services.Stock.GetMovementByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, movement)
}

// RecordMovement handles POST /api/stock/movements
func (sc *StockController) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var form models.StockMovementForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	movement, err := sc.services.Stock.RecordMovement(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, movement)
}

// DeleteMovement handles DELETE /api/stock/movements/{id}
func (sc *StockController) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := sc.services.Stock.DeleteMovement(r.Context(), id); err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// Balance handles GET /api/stock/balance?site=PN&product_id=1
func (sc *StockController) Balance(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	productID, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	if site == "" || err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "site and product_id are required")
		return
	}

	balance, err := sc.services.Stock.SiteBalance(r.Context(), site, productID)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"product_id": productID,
		"balance":    balance,
	})
}

// ListSales handles GET /api/sales
func (sc *StockController) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := sc.services.Stock.GetSales(r.Context(), r.URL.Query().Get("site"))
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// GetSale handles GET /api/sales/{id}
func (sc *StockController) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sale, err := sc.services.Stock.GetSaleByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// RecordSale handles POST /api/sales
func (sc *StockController) RecordSale(w http.ResponseWriter, r *http.Request) {
	var form models.SaleForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := sc.services.Stock.RecordSale(r.Context(), &form)
	if err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

// DeleteSale handles DELETE /api/sales/{id}
func (sc *StockController) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := sc.services.Stock.DeleteSale(r.Context(), id); err != nil {
		respondServiceError(w, sc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}
