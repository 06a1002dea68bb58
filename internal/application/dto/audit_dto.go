package dto

import (
	"encoding/json"
	"time"
)

// AuditEntryResponse registro de auditoría con snapshots JSON.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Operation string          `json:"operation"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Date      time.Time       `json:"date"`
}

// AuditListResponse listado de auditoría.
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
