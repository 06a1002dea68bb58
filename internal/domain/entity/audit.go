package entity

import (
	"encoding/json"
	"time"
)

// Operaciones auditables.
const (
	AuditOpInsert = "INSERT"
	AuditOpUpdate = "UPDATE"
	AuditOpDelete = "DELETE"
)

// AuditEntry registro de auditoría con snapshots antes/después en JSON.
// La auditoría es best-effort: su fallo nunca falla la operación de negocio.
type AuditEntry struct {
	ID        string
	CompanyID string
	UserID    string
	Entity    string // "Movement", "WarehouseStock", ...
	EntityID  string
	Operation string // INSERT, UPDATE, DELETE
	Before    json.RawMessage
	After     json.RawMessage
	Date      time.Time
}
