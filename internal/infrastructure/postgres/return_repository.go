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

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, company_id, number, type, state, warehouse_id, supplier_id, user_id, reason, notes, date, created_at, updated_at`

// Create persiste la devolución con sus líneas.
func (r *ReturnRepo) Create(ret *entity.Return) error {
	ctx := context.Background()
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.CompanyID, ret.Number, ret.Type, ret.State,
		ret.WarehouseID, nullable(ret.SupplierID), ret.UserID,
		ret.Reason, ret.Notes, ret.Date, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create return: %w", err)
	}
	lineQuery := `
		INSERT INTO return_lines (id, return_id, product_id, batch_id, quantity, reason)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range ret.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.ReturnID, line.ProductID, nullable(line.BatchID), line.Quantity, line.Reason); err != nil {
			return fmt.Errorf("create return line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una devolución con sus líneas. Devuelve nil si no existe.
func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByNumber busca por número dentro de la empresa. Devuelve nil si no existe.
func (r *ReturnRepo) GetByNumber(companyID, number string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE company_id = $1 AND number = $2`
	return r.scanOne(query, companyID, number)
}

func (r *ReturnRepo) scanOne(query string, args ...any) (*entity.Return, error) {
	var ret entity.Return
	var supplierID *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&ret.ID, &ret.CompanyID, &ret.Number, &ret.Type, &ret.State,
		&ret.WarehouseID, &supplierID, &ret.UserID,
		&ret.Reason, &ret.Notes, &ret.Date, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	ret.SupplierID = deref(supplierID)
	if err := r.loadLines(&ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Update actualiza estado, motivo y notas.
func (r *ReturnRepo) Update(ret *entity.Return) error {
	query := `
		UPDATE returns SET state = $2, reason = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.State, ret.Reason, ret.Notes, ret.UpdatedAt); err != nil {
		return fmt.Errorf("update return: %w", err)
	}
	return nil
}

// ListByCompany lista devoluciones de la empresa, recientes primero.
func (r *ReturnRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Return, error) {
	query := `
		SELECT ` + returnColumns + ` FROM returns WHERE company_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, companyID, limit, offset)
}

// ListByType lista devoluciones de la empresa filtradas por tipo.
func (r *ReturnRepo) ListByType(companyID, returnType string, limit, offset int) ([]*entity.Return, error) {
	query := `
		SELECT ` + returnColumns + ` FROM returns WHERE company_id = $1 AND type = $2
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, returnType, limit, offset)
}

// ListByState lista devoluciones de la empresa filtradas por estado.
func (r *ReturnRepo) ListByState(companyID, state string, limit, offset int) ([]*entity.Return, error) {
	query := `
		SELECT ` + returnColumns + ` FROM returns WHERE company_id = $1 AND state = $2
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, state, limit, offset)
}

// Delete elimina una devolución y sus líneas.
func (r *ReturnRepo) Delete(id string) error {
	// Un solo statement: líneas y cabecera caen juntas o ninguna.
	query := `
		WITH deleted_lines AS (
			DELETE FROM return_lines WHERE return_id = $1
		)
		DELETE FROM returns WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete return: %w", err)
	}
	return nil
}

func (r *ReturnRepo) scanMany(query string, args ...any) ([]*entity.Return, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Return
	for rows.Next() {
		var ret entity.Return
		var supplierID *string
		if err := rows.Scan(&ret.ID, &ret.CompanyID, &ret.Number, &ret.Type, &ret.State,
			&ret.WarehouseID, &supplierID, &ret.UserID,
			&ret.Reason, &ret.Notes, &ret.Date, &ret.CreatedAt, &ret.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		ret.SupplierID = deref(supplierID)
		list = append(list, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ret := range list {
		if err := r.loadLines(ret); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ReturnRepo) loadLines(ret *entity.Return) error {
	query := `
		SELECT id, return_id, product_id, batch_id, quantity, reason
		FROM return_lines WHERE return_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ret.ID)
	if err != nil {
		return fmt.Errorf("list return lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.ReturnLine
		var batchID *string
		if err := rows.Scan(&line.ID, &line.ReturnID, &line.ProductID, &batchID, &line.Quantity, &line.Reason); err != nil {
			return fmt.Errorf("scan return line: %w", err)
		}
		line.BatchID = deref(batchID)
		ret.Lines = append(ret.Lines, line)
	}
	return rows.Err()
}
