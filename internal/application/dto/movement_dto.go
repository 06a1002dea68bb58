package dto

import "time"

// MovementLineRequest línea de movimiento.
type MovementLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateMovementRequest registro de movimiento ENTRADA/SALIDA/TRANSFERENCIA.
// ENTRADA: sólo destination_id. SALIDA: sólo origin_id. TRANSFERENCIA: ambos.
type CreateMovementRequest struct {
	Type          string                `json:"type"`
	OriginID      string                `json:"origin_id"`
	DestinationID string                `json:"destination_id"`
	Notes         string                `json:"notes"`
	Lines         []MovementLineRequest `json:"lines"`
}

// MovementLineResponse línea con nombre de producto resuelto.
type MovementLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// MovementResponse movimiento con nombres resueltos para mostrar.
type MovementResponse struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Date        time.Time              `json:"date"`
	User        string                 `json:"user"`
	Origin      string                 `json:"origin,omitempty"`
	Destination string                 `json:"destination,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	Lines       []MovementLineResponse `json:"lines"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
