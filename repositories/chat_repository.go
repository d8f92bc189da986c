package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// ChatRepository interface defines chat message database operations
type ChatRepository interface {
	GetByShipment(ctx context.Context, shipmentID int64) ([]models.ChatMessage, error)
	Create(ctx context.Context, message *models.ChatMessage) error
}

// chatRepository implements ChatRepository interface
type chatRepository struct {
	db database.DBTX
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db database.DBTX) ChatRepository {
	return &chatRepository{db: db}
}

// GetByShipment retrieves a shipment's thread, oldest first. The author
// email is joined in for display; it goes empty when the account is gone.
func (r *chatRepository) GetByShipment(ctx context.Context, shipmentID int64) ([]models.ChatMessage, error) {
	query := `
		SELECT m.id, m.shipment_id, m.author_id, COALESCE(u.email, ''), m.site, m.body, m.created_at
		FROM chat_messages m
		LEFT JOIN users u ON u.id = m.author_id
		WHERE m.shipment_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var message models.ChatMessage
		var authorID sql.NullInt64

		err := rows.Scan(&message.ID, &message.ShipmentID, &authorID,
			&message.AuthorEmail, &message.Site, &message.Body, &message.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}

		if authorID.Valid {
			id := authorID.Int64
			message.AuthorID = &id
		}

		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// Create creates a new chat message
func (r *chatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (shipment_id, author_id, site, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		message.ShipmentID, message.AuthorID, message.Site, message.Body, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	message.ID = id

	return nil
}
