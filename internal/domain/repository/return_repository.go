package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// ReturnRepository define el puerto de persistencia para Return.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	GetByID(id string) (*entity.Return, error)
	GetByNumber(companyID, number string) (*entity.Return, error)
	Update(ret *entity.Return) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Return, error)
	ListByType(companyID, returnType string, limit, offset int) ([]*entity.Return, error)
	ListByState(companyID, state string, limit, offset int) ([]*entity.Return, error)
	Delete(id string) error
}
