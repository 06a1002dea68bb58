// Package inventory contiene la lógica pura del libro de stock: ajustes con
// límites y aprovisionamiento por defecto. No toca persistencia; la
// atomicidad por clave (bodega, producto) la garantiza la transacción con
// SELECT FOR UPDATE en la capa de aplicación.
package inventory

import (
	"time"

	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
)

// Límites por defecto al crear inventario automáticamente.
const (
	DefaultStockMin = 10
	DefaultStockMax = 1000
)

// NewWarehouseStock crea una entrada de inventario con stock 0 y límites por
// defecto, para aprovisionamiento automático en entradas, transferencias,
// devoluciones de cliente y recepción de órdenes.
func NewWarehouseStock(companyID, warehouseID, productID string, now time.Time) *entity.WarehouseStock {
	return &entity.WarehouseStock{
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       0,
		StockMin:    DefaultStockMin,
		StockMax:    DefaultStockMax,
		UpdatedAt:   now,
	}
}

// Adjust aplica delta al stock respetando 0 <= stock <= stockMax. Muta ws y
// devuelve el snapshot anterior (para auditoría). Si el resultado viola un
// límite, ws queda intacto y se retorna StockBoundsError.
func Adjust(ws *entity.WarehouseStock, delta int, now time.Time) (before entity.WarehouseStock, err error) {
	before = *ws
	newStock := ws.Stock + delta
	if newStock < 0 {
		return before, &domain.StockBoundsError{
			Kind:        domain.StockBoundsNegative,
			WarehouseID: ws.WarehouseID,
			ProductID:   ws.ProductID,
			Current:     ws.Stock,
			Delta:       delta,
			StockMax:    ws.StockMax,
		}
	}
	if newStock > ws.StockMax {
		return before, &domain.StockBoundsError{
			Kind:        domain.StockBoundsAboveMax,
			WarehouseID: ws.WarehouseID,
			ProductID:   ws.ProductID,
			Current:     ws.Stock,
			Delta:       delta,
			StockMax:    ws.StockMax,
		}
	}
	ws.Stock = newStock
	ws.UpdatedAt = now
	return before, nil
}

// ValidateBounds verifica StockMin <= StockMax y valores no negativos al crear
// o actualizar inventario manualmente.
func ValidateBounds(stockMin, stockMax int) error {
	if stockMin < 0 || stockMax < 0 {
		return domain.ErrInvalidInput
	}
	if stockMin > stockMax {
		return domain.ErrInvalidInput
	}
	return nil
}
