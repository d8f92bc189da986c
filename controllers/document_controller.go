package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// DocumentController handles document metadata and uploads
type DocumentController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewDocumentController creates a new document controller
func NewDocumentController(services *services.Services, log *logrus.Logger) *DocumentController {
	return &DocumentController{services: services, log: log}
}

// List handles GET /api/documents
func (dc *DocumentController) List(w http.ResponseWriter, r *http.Request) {
	docs, err := dc.services.Documents.GetDocuments(r.Context())
	if err != nil {
		respondServiceError(w, dc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/documents/{id}
func (dc *DocumentController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	doc, err := dc.services.Documents.GetDocumentByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, dc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Upload handles POST /api/documents
func (dc *DocumentController) Upload(w http.ResponseWriter, r *http.Request) {
	var form models.DocumentForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := dc.services.Documents.Upload(r.Context(), &form)
	if err != nil {
		respondServiceError(w, dc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

// Update handles PUT /api/documents/{id}
func (dc *DocumentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.DocumentForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := dc.services.Documents.UpdateDocument(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, dc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/{id}
func (dc *DocumentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := dc.services.Documents.DeleteDocument(r.Context(), id); err != nil {
		respondServiceError(w, dc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}
