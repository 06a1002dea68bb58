package repository

import "github.com/arrublas1208/logitrack-api/internal/domain/entity"

// WarehouseStockRepository define el puerto de persistencia del libro de
// stock por (bodega, producto). Get y GetForUpdate devuelven nil si no existe
// la entrada; GetForUpdate además bloquea la fila (SELECT FOR UPDATE) para
// serializar ajustes concurrentes sobre la misma clave.
type WarehouseStockRepository interface {
	Get(warehouseID, productID string) (*entity.WarehouseStock, error)
	GetForUpdate(warehouseID, productID string) (*entity.WarehouseStock, error)
	Upsert(stock *entity.WarehouseStock) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.WarehouseStock, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, error)
	ListLowStock(companyID string) ([]*entity.WarehouseStock, error)
	TotalByProduct(companyID, productID string) (int, error)
	Delete(warehouseID, productID string) error
}
