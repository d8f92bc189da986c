package models

import (
	"encoding/json"
	"time"
)

// Audit actions.
const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionUploadDoc    = "UPLOAD_DOC"
	ActionStockMove    = "STOCK_MOVE"
	ActionSale         = "SALE"
)

// AuditActions lists every valid audit action.
var AuditActions = []string{
	ActionCreate, ActionUpdate, ActionDelete,
	ActionStatusChange, ActionUploadDoc, ActionStockMove, ActionSale,
}

// IsValidAction checks an action against the known audit actions.
func IsValidAction(action string) bool {
	return containsString(AuditActions, action)
}

// AuditEvent is one immutable record in the audit log. Records are never
// updated or deleted by application code. entity_type/entity_id are plain
// strings, not foreign keys, so the log survives entity deletion and
// schema evolution.
type AuditEvent struct {
	ID         int64           `json:"id"`
	ActorID    *int64          `json:"actor_id,omitempty"`
	ActorEmail string          `json:"actor_email,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Site       string          `json:"site"`
	Summary    string          `json:"summary"`
	BeforeJSON json.RawMessage `json:"before_json,omitempty"`
	AfterJSON  json.RawMessage `json:"after_json,omitempty"`
	IPAddress  string          `json:"ip_address"`
	UserAgent  string          `json:"user_agent"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditEventFilter narrows audit event queries. Date bounds are inclusive
// and compare on the event's calendar date.
type AuditEventFilter struct {
	Action     string
	Site       string
	DateAfter  *time.Time
	DateBefore *time.Time
	Limit      int
}

// ActorCount pairs an actor with an event count, for top-N reporting.
type ActorCount struct {
	ActorEmail string `json:"actor_email"`
	Count      int    `json:"count"`
}

// AuditReport is the aggregate payload produced for a reporting period.
type AuditReport struct {
	Period         string         `json:"period"`
	TotalEvents    int            `json:"total_events"`
	EventsByAction map[string]int `json:"events_by_action"`
	EventsBySite   map[string]int `json:"events_by_site"`
	TopUsers       []ActorCount   `json:"top_users"`
	LastEvents     []AuditEvent   `json:"last_events"`
}
