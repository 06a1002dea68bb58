package inventory

import (
	"context"

	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada método cubre un flujo del motor de
// inventario: Commit si fn retorna nil, Rollback en caso contrario. Es la
// garantía de todo-o-nada: un movimiento, una recepción o una devolución
// completada nunca dejan el libro de stock a medias.
type TxRunner interface {
	// Run flujo de movimientos y ajustes directos de stock.
	Run(ctx context.Context, fn func(
		stockRepo repository.WarehouseStockRepository,
		movRepo repository.MovementRepository,
	) error) error

	// RunReturns flujo de completar devoluciones.
	RunReturns(ctx context.Context, fn func(
		stockRepo repository.WarehouseStockRepository,
		retRepo repository.ReturnRepository,
	) error) error

	// RunOrders flujo de recepción de órdenes de compra.
	RunOrders(ctx context.Context, fn func(
		stockRepo repository.WarehouseStockRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}

// AuditSink recibe snapshots antes/después de cada mutación. Es best-effort:
// la implementación nunca retorna error y un fallo de auditoría jamás debe
// fallar la operación de negocio que lo originó.
type AuditSink interface {
	Record(ctx context.Context, companyID, userID, auditedEntity, entityID, operation string, before, after any)
}
