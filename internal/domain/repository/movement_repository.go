package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para Movement.
// Create guarda el movimiento con sus líneas como una unidad.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Movement, error)
	ListByType(companyID, movementType string, limit, offset int) ([]*entity.Movement, error)
	ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.Movement, error)
	ListLatest(companyID string, limit int) ([]*entity.Movement, error)
	Delete(id string) error
}
