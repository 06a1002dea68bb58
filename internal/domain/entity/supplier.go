package entity

import "time"

// Supplier representa un proveedor (destino de órdenes de compra y de
// devoluciones A_PROVEEDOR).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string
	Contact   string
	Phone     string
	Email     string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
