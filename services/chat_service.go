package services

import (
	"context"
	"strings"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// ChatService interface defines shipment chat business logic. Threads hang
// off a shipment and follow its visibility; messages themselves are not
// audit-tracked.
type ChatService interface {
	GetMessages(ctx context.Context, shipmentID int64) ([]models.ChatMessage, error)
	PostMessage(ctx context.Context, shipmentID int64, form *models.ChatMessageForm) (*models.ChatMessage, error)
}

// chatService implements ChatService interface
type chatService struct {
	repos *repositories.Repositories
}

// NewChatService creates a new chat service
func NewChatService(repos *repositories.Repositories) ChatService {
	return &chatService{repos: repos}
}

// GetMessages retrieves a shipment's thread, oldest first
func (s *chatService) GetMessages(ctx context.Context, shipmentID int64) ([]models.ChatMessage, error) {
	if err := s.checkShipmentAccess(ctx, shipmentID); err != nil {
		return nil, err
	}
	return s.repos.Chat.GetByShipment(ctx, shipmentID)
}

// PostMessage appends a message to a shipment's thread, stamped with the
// author and the site they posted from.
func (s *chatService) PostMessage(ctx context.Context, shipmentID int64, form *models.ChatMessageForm) (*models.ChatMessage, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if err := s.checkShipmentAccess(ctx, shipmentID); err != nil {
		return nil, err
	}

	actor := actorctx.FromContext(ctx)
	message := &models.ChatMessage{
		ShipmentID:  shipmentID,
		AuthorID:    actorID(ctx),
		AuthorEmail: actor.Email,
		Site:        actor.Site,
		Body:        strings.TrimSpace(form.Body),
	}

	if err := s.repos.Chat.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *chatService) checkShipmentAccess(ctx context.Context, shipmentID int64) error {
	shipment, err := s.repos.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return err
	}
	if !canAccessSite(ctx, shipment.DestinationSite) {
		return ErrForbidden
	}
	return nil
}
