package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// BatchRepository define el puerto de persistencia para Batch (lotes).
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	Update(batch *entity.Batch) error
	ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error)
	Delete(id string) error
}
