package postgres

import (
	"context"
	"fmt"

	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación sobre PostgreSQL (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, company_id, user_id, entity, entity_id, operation, before_snapshot, after_snapshot, date`

// Create persiste un registro de auditoría.
func (r *AuditRepo) Create(entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, nullable(entry.UserID), entry.Entity, entry.EntityID,
		entry.Operation, entry.Before, entry.After, entry.Date,
	)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// ListLatest lista los últimos registros de la empresa.
func (r *AuditRepo) ListLatest(companyID string, limit int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_log WHERE company_id = $1
		ORDER BY date DESC LIMIT $2`
	return r.scanMany(query, companyID, limit)
}

// ListByEntity lista registros filtrados por tipo de entidad.
func (r *AuditRepo) ListByEntity(companyID, auditedEntity string, limit, offset int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_log WHERE company_id = $1 AND entity = $2
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, auditedEntity, limit, offset)
}

func (r *AuditRepo) scanMany(query string, args ...any) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var userID *string
		if err := rows.Scan(&e.ID, &e.CompanyID, &userID, &e.Entity, &e.EntityID,
			&e.Operation, &e.Before, &e.After, &e.Date); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.UserID = deref(userID)
		list = append(list, &e)
	}
	return list, rows.Err()
}
