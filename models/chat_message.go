package models

import (
	"strings"
	"time"
)

// ChatMessage is one entry in a shipment's discussion thread. Site records
// where the author posted from; the thread itself is visible to whoever can
// see the shipment. Messages are not audit-tracked.
type ChatMessage struct {
	ID          int64     `json:"id"`
	ShipmentID  int64     `json:"shipment_id"`
	AuthorID    *int64    `json:"author_id,omitempty"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Site        string    `json:"site"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatMessageForm represents a new chat message
type ChatMessageForm struct {
	Body string `json:"body"`
}

// Validate validates the chat message form data
func (f *ChatMessageForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Body) == "" {
		errors = append(errors, "Message body is required")
	}

	return errors
}
