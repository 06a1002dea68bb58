package entity

import "time"

// WarehouseStock es la entrada de inventario por (bodega, producto): cantidad
// actual y límites. Invariantes: 0 <= Stock <= StockMax y StockMin <= StockMax,
// siempre. Se muta únicamente a través de inventory.Adjust; los procesadores
// nunca la eliminan (solo el borrado administrativo).
type WarehouseStock struct {
	ID          string
	CompanyID   string
	WarehouseID string
	ProductID   string
	Stock       int
	StockMin    int
	StockMax    int
	UpdatedAt   time.Time
}
