package dto

import "time"

// CreateStockRequest crea manualmente una entrada de inventario.
type CreateStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Stock       int    `json:"stock"`
	StockMin    int    `json:"stock_min"`
	StockMax    int    `json:"stock_max"`
}

// UpdateStockBoundsRequest actualiza los límites de una entrada existente.
type UpdateStockBoundsRequest struct {
	StockMin int `json:"stock_min"`
	StockMax int `json:"stock_max"`
}

// AdjustStockRequest ajuste manual de stock (corrección directa).
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Delta       int    `json:"delta"`
}

// StockResponse entrada del libro de stock.
type StockResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	Stock       int       `json:"stock"`
	StockMin    int       `json:"stock_min"`
	StockMax    int       `json:"stock_max"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockListResponse listado paginado de inventario.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
