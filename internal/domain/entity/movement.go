package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada       = "ENTRADA"       // entrada a bodega destino
	MovementTypeSalida        = "SALIDA"        // salida desde bodega origen
	MovementTypeTransferencia = "TRANSFERENCIA" // origen -> destino
)

// Movement representa un movimiento de inventario con sus líneas. Inmutable
// después de creado, salvo el borrado: eliminar un movimiento NO revierte los
// efectos que causó sobre el inventario (asimetría intencional del sistema).
type Movement struct {
	ID            string
	CompanyID     string
	Type          string // ENTRADA, SALIDA, TRANSFERENCIA
	UserID        string
	OriginID      string // bodega origen; vacío para ENTRADA
	DestinationID string // bodega destino; vacío para SALIDA
	Notes         string
	Date          time.Time
	CreatedAt     time.Time
	Lines         []MovementLine
}

// MovementLine línea de un movimiento. Los productos no se repiten dentro de
// un mismo movimiento.
type MovementLine struct {
	ID         string
	MovementID string
	ProductID  string
	Quantity   int // siempre > 0
}
