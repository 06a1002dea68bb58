package dto

// SummaryResponse resumen agregado de la empresa (dashboard).
type SummaryResponse struct {
	Products       int `json:"products"`
	Warehouses     int `json:"warehouses"`
	Suppliers      int `json:"suppliers"`
	Movements      int `json:"movements"`
	PendingReturns int `json:"pending_returns"`
	PendingOrders  int `json:"pending_orders"`
	TotalStock     int `json:"total_stock"`
	LowStockCount  int `json:"low_stock_count"`
}
