// Package audit implementa el registro de auditoría best-effort: cada
// mutación relevante deja un AuditEntry con snapshots antes/después, y un
// fallo al grabar sólo se registra en el log, nunca propaga error.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
)

// Recorder implementa inventory.AuditSink contra un AuditRepository.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record serializa los snapshots y persiste el registro. Nunca retorna error.
func (r *Recorder) Record(ctx context.Context, companyID, userID, auditedEntity, entityID, operation string, before, after any) {
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    userID,
		Entity:    auditedEntity,
		EntityID:  entityID,
		Operation: operation,
		Before:    marshalSnapshot(before),
		After:     marshalSnapshot(after),
		Date:      time.Now(),
	}
	if err := r.repo.Create(entry); err != nil {
		r.log.Error().
			Err(err).
			Str("entity", auditedEntity).
			Str("entity_id", entityID).
			Str("operation", operation).
			Msg("no se pudo grabar la auditoría")
	}
}

func marshalSnapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// QueryUseCase consultas de solo lectura sobre la auditoría.
type QueryUseCase struct {
	repo repository.AuditRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(repo repository.AuditRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// Latest devuelve los últimos registros de la empresa.
func (uc *QueryUseCase) Latest(companyID string, limit int) (*dto.AuditListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.repo.ListLatest(companyID, limit)
	if err != nil {
		return nil, err
	}
	return toAuditListResponse(list, limit, 0), nil
}

// ListByEntity filtra por tipo de entidad auditada.
func (uc *QueryUseCase) ListByEntity(companyID, auditedEntity string, limit, offset int) (*dto.AuditListResponse, error) {
	list, err := uc.repo.ListByEntity(companyID, auditedEntity, limit, offset)
	if err != nil {
		return nil, err
	}
	return toAuditListResponse(list, limit, offset), nil
}

func toAuditListResponse(list []*entity.AuditEntry, limit, offset int) *dto.AuditListResponse {
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Operation: e.Operation,
			Before:    e.Before,
			After:     e.After,
			Date:      e.Date,
		})
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}
}
