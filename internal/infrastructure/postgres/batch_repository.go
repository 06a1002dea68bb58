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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, company_id, product_id, code, quantity, expires_at, received_at, created_at, updated_at`

// Create persiste un lote. Devuelve domain.ErrDuplicate si el código ya
// existe para el producto.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CompanyID, batch.ProductID, batch.Code, batch.Quantity,
		batch.ExpiresAt, batch.ReceivedAt, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &b.Code, &b.Quantity,
		&b.ExpiresAt, &b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// Update actualiza cantidad y vencimiento de un lote.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches SET quantity = $2, expires_at = $3, updated_at = $4
		WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.Quantity, batch.ExpiresAt, batch.UpdatedAt); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// ListByProduct lista lotes de un producto.
func (r *BatchRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batches WHERE product_id = $1
		ORDER BY received_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, productID, limit, offset)
}

// ListByCompany lista lotes de la empresa.
func (r *BatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batches WHERE company_id = $1
		ORDER BY received_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, companyID, limit, offset)
}

func (r *BatchRepo) scanMany(query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.ProductID, &b.Code, &b.Quantity,
			&b.ExpiresAt, &b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Delete elimina un lote por ID.
func (r *BatchRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}
