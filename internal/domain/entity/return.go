package entity

import "time"

// Tipos de devolución.
const (
	ReturnTypeAProveedor = "A_PROVEEDOR" // resta stock al completar
	ReturnTypeDeCliente  = "DE_CLIENTE"  // suma stock al completar
)

// Estados de devolución. COMPLETADA es terminal (bloquea update y delete);
// RECHAZADA admite nuevos rechazos que acumulan motivo en Notes.
const (
	ReturnStatePendiente  = "PENDIENTE"
	ReturnStateAprobada   = "APROBADA"
	ReturnStateCompletada = "COMPLETADA"
	ReturnStateRechazada  = "RECHAZADA"
)

// Return representa una devolución (a proveedor o de cliente) con su máquina
// de estados: PENDIENTE -> APROBADA -> {COMPLETADA, RECHAZADA}; también
// PENDIENTE -> RECHAZADA. Los efectos sobre inventario se aplican al completar.
type Return struct {
	ID          string
	CompanyID   string
	Number      string // único por empresa; DP-/DC- + millis si no se envía
	Type        string // A_PROVEEDOR, DE_CLIENTE
	State       string
	WarehouseID string
	SupplierID  string // obligatorio sólo para A_PROVEEDOR
	UserID      string
	Reason      string
	Notes       string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []ReturnLine
}

// ReturnLine línea de devolución.
type ReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	BatchID   string // opcional
	Quantity  int    // siempre > 0
	Reason    string
}
