package entity

import "time"

// Company representa una empresa/tenant del sistema. Todas las entidades de
// inventario están aisladas por empresa; las referencias cruzadas se rechazan.
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
