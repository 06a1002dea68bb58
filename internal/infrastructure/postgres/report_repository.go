package postgres

import (
	"context"
	"fmt"

	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Summary calcula los totales de la empresa en una sola consulta.
func (r *ReportRepo) Summary(companyID string) (*repository.ReportSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE company_id = $1),
			(SELECT COUNT(*) FROM warehouses WHERE company_id = $1),
			(SELECT COUNT(*) FROM suppliers WHERE company_id = $1),
			(SELECT COUNT(*) FROM movements WHERE company_id = $1),
			(SELECT COUNT(*) FROM returns WHERE company_id = $1 AND state = 'PENDIENTE'),
			(SELECT COUNT(*) FROM purchase_orders WHERE company_id = $1 AND state = 'PENDIENTE'),
			(SELECT COALESCE(SUM(stock), 0) FROM warehouse_stock WHERE company_id = $1),
			(SELECT COUNT(*) FROM warehouse_stock WHERE company_id = $1 AND stock < stock_min)`
	var s repository.ReportSummary
	err := r.q.QueryRow(context.Background(), query, companyID).Scan(
		&s.Products, &s.Warehouses, &s.Suppliers, &s.Movements,
		&s.PendingReturns, &s.PendingOrders, &s.TotalStock, &s.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("report summary: %w", err)
	}
	return &s, nil
}
