package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Manager   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
