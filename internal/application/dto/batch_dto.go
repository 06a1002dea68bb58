package dto

import "time"

// CreateBatchRequest alta de lote.
type CreateBatchRequest struct {
	ProductID string     `json:"product_id"`
	Code      string     `json:"code"`
	Quantity  int        `json:"quantity"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateBatchRequest actualización parcial de lote.
type UpdateBatchRequest struct {
	Quantity  *int       `json:"quantity"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// BatchResponse respuesta de lote.
type BatchResponse struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	ProductID  string     `json:"product_id"`
	Code       string     `json:"code"`
	Quantity   int        `json:"quantity"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BatchListResponse listado paginado de lotes.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
