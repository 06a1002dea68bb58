package repository

// ReportSummary totales agregados de una empresa para el dashboard.
type ReportSummary struct {
	Products       int
	Warehouses     int
	Suppliers      int
	Movements      int
	PendingReturns int
	PendingOrders  int
	TotalStock     int
	LowStockCount  int
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	Summary(companyID string) (*ReportSummary, error)
}
