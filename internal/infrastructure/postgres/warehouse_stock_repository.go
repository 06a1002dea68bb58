package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

var _ repository.WarehouseStockRepository = (*WarehouseStockRepo)(nil)

// WarehouseStockRepo implementación del libro de stock sobre PostgreSQL
// (usable con pool o tx).
type WarehouseStockRepo struct {
	q Querier
}

// NewWarehouseStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseStockRepository(q Querier) *WarehouseStockRepo {
	return &WarehouseStockRepo{q: q}
}

const warehouseStockColumns = `id, company_id, warehouse_id, product_id, stock, stock_min, stock_max, updated_at`

// Get obtiene la entrada de una clave (bodega, producto). Devuelve nil si no existe.
func (r *WarehouseStockRepo) Get(warehouseID, productID string) (*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2`
	return r.scanOne(query, warehouseID, productID)
}

// GetForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil si no existe.
func (r *WarehouseStockRepo) GetForUpdate(warehouseID, productID string) (*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(query, warehouseID, productID)
}

func (r *WarehouseStockRepo) scanOne(query string, args ...any) (*entity.WarehouseStock, error) {
	var s entity.WarehouseStock
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.CompanyID, &s.WarehouseID, &s.ProductID,
		&s.Stock, &s.StockMin, &s.StockMax, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la entrada por (bodega, producto).
func (r *WarehouseStockRepo) Upsert(stock *entity.WarehouseStock) error {
	query := `
		INSERT INTO warehouse_stock (id, company_id, warehouse_id, product_id, stock, stock_min, stock_max, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET stock = EXCLUDED.stock, stock_min = EXCLUDED.stock_min,
			stock_max = EXCLUDED.stock_max, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.CompanyID, stock.WarehouseID, stock.ProductID,
		stock.Stock, stock.StockMin, stock.StockMax, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert warehouse stock: %w", err)
	}
	return nil
}

// ListByCompany lista el inventario de la empresa.
func (r *WarehouseStockRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock WHERE company_id = $1
		ORDER BY warehouse_id, product_id LIMIT $2 OFFSET $3`
	return r.scanMany(query, companyID, limit, offset)
}

// ListByWarehouse lista el inventario de una bodega.
func (r *WarehouseStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.scanMany(query, warehouseID, limit, offset)
}

// ListLowStock lista entradas con stock por debajo del mínimo.
func (r *WarehouseStockRepo) ListLowStock(companyID string) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock WHERE company_id = $1 AND stock < stock_min
		ORDER BY warehouse_id, product_id`
	return r.scanMany(query, companyID)
}

func (r *WarehouseStockRepo) scanMany(query string, args ...any) ([]*entity.WarehouseStock, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouse stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.WarehouseID, &s.ProductID,
			&s.Stock, &s.StockMin, &s.StockMax, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// TotalByProduct suma el stock de un producto en todas las bodegas de la empresa.
func (r *WarehouseStockRepo) TotalByProduct(companyID, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(stock), 0)
		FROM warehouse_stock WHERE company_id = $1 AND product_id = $2`
	var total int
	if err := r.q.QueryRow(context.Background(), query, companyID, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total by product: %w", err)
	}
	return total, nil
}

// Delete elimina una entrada por clave.
func (r *WarehouseStockRepo) Delete(warehouseID, productID string) error {
	query := `DELETE FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2`
	if _, err := r.q.Exec(context.Background(), query, warehouseID, productID); err != nil {
		return fmt.Errorf("delete warehouse stock: %w", err)
	}
	return nil
}
