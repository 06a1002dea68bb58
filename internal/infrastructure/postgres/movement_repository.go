package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el movimiento con sus líneas. Debe llamarse dentro de una
// tx para que encabezado y líneas queden como unidad.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	ctx := context.Background()
	query := `
		INSERT INTO movements (id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	originID := nullable(movement.OriginID)
	destinationID := nullable(movement.DestinationID)
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.CompanyID, movement.Type, movement.UserID,
		originID, destinationID, movement.Notes, movement.Date, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	lineQuery := `
		INSERT INTO movement_lines (id, movement_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	for _, line := range movement.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, line.MovementID, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("create movement line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at
		FROM movements WHERE id = $1`
	var m entity.Movement
	var originID, destinationID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.CompanyID, &m.Type, &m.UserID, &originID, &destinationID,
		&m.Notes, &m.Date, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.OriginID = deref(originID)
	m.DestinationID = deref(destinationID)
	if err := r.loadLines(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByCompany lista movimientos de la empresa, recientes primero.
func (r *MovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at
		FROM movements WHERE company_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, companyID, limit, offset)
}

// ListByType lista movimientos de la empresa filtrados por tipo.
func (r *MovementRepo) ListByType(companyID, movementType string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at
		FROM movements WHERE company_id = $1 AND type = $2
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, movementType, limit, offset)
}

// ListByWarehouse lista movimientos que tocan una bodega (origen o destino).
func (r *MovementRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at
		FROM movements WHERE company_id = $1 AND (origin_id = $2 OR destination_id = $2)
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	return r.scanMany(query, companyID, warehouseID, limit, offset)
}

// ListLatest lista los últimos movimientos de la empresa.
func (r *MovementRepo) ListLatest(companyID string, limit int) ([]*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, user_id, origin_id, destination_id, notes, date, created_at
		FROM movements WHERE company_id = $1
		ORDER BY date DESC LIMIT $2`
	return r.scanMany(query, companyID, limit)
}

// Delete elimina el movimiento y sus líneas. No toca el inventario.
func (r *MovementRepo) Delete(id string) error {
	// Un solo statement: líneas y cabecera caen juntas o ninguna.
	query := `
		WITH deleted_lines AS (
			DELETE FROM movement_lines WHERE movement_id = $1
		)
		DELETE FROM movements WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) scanMany(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var originID, destinationID *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Type, &m.UserID, &originID, &destinationID,
			&m.Notes, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.OriginID = deref(originID)
		m.DestinationID = deref(destinationID)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range list {
		if err := r.loadLines(m); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *MovementRepo) loadLines(m *entity.Movement) error {
	query := `
		SELECT id, movement_id, product_id, quantity
		FROM movement_lines WHERE movement_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, m.ID)
	if err != nil {
		return fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.MovementLine
		if err := rows.Scan(&line.ID, &line.MovementID, &line.ProductID, &line.Quantity); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		m.Lines = append(m.Lines, line)
	}
	return rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
