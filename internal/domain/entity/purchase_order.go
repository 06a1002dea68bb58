package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra. RECIBIDA y CANCELADA son terminales.
const (
	OrderStatePendiente = "PENDIENTE"
	OrderStateAprobada  = "APROBADA"
	OrderStateEnviada   = "ENVIADA"
	OrderStateRecibida  = "RECIBIDA"
	OrderStateCancelada = "CANCELADA"
)

// PurchaseOrder representa una orden de compra a proveedor. Al recibirla se
// incrementa el stock de la bodega destino línea por línea, en una sola
// transacción.
type PurchaseOrder struct {
	ID                string
	CompanyID         string
	Number            string // único por empresa; OC- + millis si no se envía
	SupplierID        string
	WarehouseID       string // bodega destino
	UserID            string
	State             string
	Total             decimal.Decimal // suma de subtotales
	Notes             string
	OrderDate         time.Time
	EstimatedDelivery *time.Time
	ReceivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Lines             []PurchaseOrderLine
}

// PurchaseOrderLine línea de orden de compra. Subtotal = UnitPrice * Quantity.
type PurchaseOrderLine struct {
	ID               string
	OrderID          string
	ProductID        string
	Quantity         int // siempre > 0
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
	ReceivedQuantity int // 0 hasta que la orden se recibe
}
