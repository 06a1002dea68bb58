package entity

import "time"

// Batch representa un lote de un producto (trazabilidad y vencimientos).
// Referenciado opcionalmente por las líneas de devolución.
type Batch struct {
	ID         string
	CompanyID  string
	ProductID  string
	Code       string // código de lote, único por producto
	Quantity   int
	ExpiresAt  *time.Time // nil = sin vencimiento
	ReceivedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
