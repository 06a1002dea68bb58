package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia de auditoría.
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	ListLatest(companyID string, limit int) ([]*entity.AuditEntry, error)
	ListByEntity(companyID, auditedEntity string, limit, offset int) ([]*entity.AuditEntry, error)
}
