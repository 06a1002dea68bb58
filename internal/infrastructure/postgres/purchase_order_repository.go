package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, company_id, number, supplier_id, warehouse_id, user_id, state, total, notes, order_date, estimated_delivery, received_at, created_at, updated_at`

// Create persiste la orden con sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CompanyID, order.Number, order.SupplierID, order.WarehouseID,
		order.UserID, order.State, order.Total, order.Notes, order.OrderDate,
		order.EstimatedDelivery, order.ReceivedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, order_id, product_id, quantity, unit_price, subtotal, received_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, line := range order.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.Quantity,
			line.UnitPrice, line.Subtotal, line.ReceivedQuantity); err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByNumber busca por número dentro de la empresa. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByNumber(companyID, number string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE company_id = $1 AND number = $2`
	return r.scanOne(query, companyID, number)
}

func (r *PurchaseOrderRepo) scanOne(query string, args ...any) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&o.ID, &o.CompanyID, &o.Number, &o.SupplierID, &o.WarehouseID,
		&o.UserID, &o.State, &o.Total, &o.Notes, &o.OrderDate,
		&o.EstimatedDelivery, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update actualiza estado, fechas y cantidades recibidas de las líneas.
func (r *PurchaseOrderRepo) Update(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		UPDATE purchase_orders SET state = $2, notes = $3, estimated_delivery = $4,
			received_at = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query,
		order.ID, order.State, order.Notes, order.EstimatedDelivery,
		order.ReceivedAt, order.UpdatedAt); err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	lineQuery := `UPDATE purchase_order_lines SET received_quantity = $2 WHERE id = $1`
	for _, line := range order.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, line.ReceivedQuantity); err != nil {
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}

// ListByCompany lista órdenes de la empresa, recientes primero.
func (r *PurchaseOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + ` FROM purchase_orders WHERE company_id = $1
		ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, companyID, limit, offset)
}

// ListByState lista órdenes de la empresa filtradas por estado.
func (r *PurchaseOrderRepo) ListByState(companyID, state string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + ` FROM purchase_orders WHERE company_id = $1 AND state = $2
		ORDER BY order_date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, state, limit, offset)
}

// Delete elimina una orden y sus líneas.
func (r *PurchaseOrderRepo) Delete(id string) error {
	// Un solo statement: líneas y cabecera caen juntas o ninguna.
	query := `
		WITH deleted_lines AS (
			DELETE FROM purchase_order_lines WHERE order_id = $1
		)
		DELETE FROM purchase_orders WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) scanMany(query string, args ...any) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Number, &o.SupplierID, &o.WarehouseID,
			&o.UserID, &o.State, &o.Total, &o.Notes, &o.OrderDate,
			&o.EstimatedDelivery, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadLines(o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadLines(o *entity.PurchaseOrder) error {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal, received_quantity
		FROM purchase_order_lines WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, o.ID)
	if err != nil {
		return fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.PurchaseOrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity,
			&line.UnitPrice, &line.Subtotal, &line.ReceivedQuantity); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}
