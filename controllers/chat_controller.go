package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// ChatController handles per-shipment discussion threads
type ChatController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewChatController creates a new chat controller
func NewChatController(services *services.Services, log *logrus.Logger) *ChatController {
	return &ChatController{services: services, log: log}
}

// List handles GET /api/shipments/{id}/chat
func (cc *ChatController) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	messages, err := cc.services.Chat.GetMessages(r.Context(), id)
	if err != nil {
		respondServiceError(w, cc.log, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// Post handles POST /api/shipments/{id}/chat
func (cc *ChatController) Post(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var form models.ChatMessageForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := cc.services.Chat.PostMessage(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, cc.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}
