package model

import (
	"encoding/json"
	"time"
)

// AuditEntry is an immutable record of one attempted circulation mutation.
// The reporting service only ever appends and reads; nothing updates or
// deletes rows.
type AuditEntry struct {
	ID         int64           `json:"id" db:"id"`
	EventType  string          `json:"eventType" db:"event_type"`
	EntityType string          `json:"entityType" db:"entity_type"`
	EntityID   string          `json:"entityId" db:"entity_id"`
	ActorID    string          `json:"actorId" db:"actor_id"`
	ActorRole  string          `json:"actorRole" db:"actor_role"`
	Success    bool            `json:"success" db:"success"`
	Payload    json.RawMessage `json:"payload,omitempty" db:"payload"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Filter narrows the audit listing. Zero values mean "no constraint".
type Filter struct {
	EntityType string
	EntityID   string
	EventType  string
	Success    *bool
	From       time.Time
	To         time.Time
	Page       int
	Size       int
}

type ListAuditEntries struct {
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Items    []AuditEntry `json:"items"`
}
