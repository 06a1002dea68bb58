package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetByNumber(companyID, number string) (*entity.PurchaseOrder, error)
	Update(order *entity.PurchaseOrder) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error)
	ListByState(companyID, state string, limit, offset int) ([]*entity.PurchaseOrder, error)
	Delete(id string) error
}
