package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Códigos estables de reglas de negocio (van en la respuesta HTTP).
const (
	CodeSameWarehouse     = "SAME_WAREHOUSE"
	CodeDuplicateProduct  = "DUPLICATE_PRODUCT"
	CodeDuplicateNumber   = "DUPLICATE_NUMBER"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeTerminalState     = "TERMINAL_STATE"
)

// BusinessError regla de negocio violada; Code es estable para clientes,
// Message es legible para humanos.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError construye una BusinessError con código y mensaje formateado.
func NewBusinessError(code, format string, args ...any) *BusinessError {
	return &BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// TenantMismatchError referencia a un recurso de otra empresa.
type TenantMismatchError struct {
	Entity string // "bodega", "producto", "proveedor", ...
	ID     string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("%s %s pertenece a otra empresa", e.Entity, e.ID)
}

// InsufficientStockError stock insuficiente para una salida, transferencia o
// devolución a proveedor. Available es 0 si el inventario no existe en la bodega.
type InsufficientStockError struct {
	ProductID     string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	Available     int
	Required      int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de '%s' en bodega '%s'. Disponible: %d, Requerido: %d",
		e.ProductName, e.WarehouseName, e.Available, e.Required)
}

// StockBoundsKind tipo de violación de límites de stock.
type StockBoundsKind string

const (
	StockBoundsNegative StockBoundsKind = "NEGATIVE"
	StockBoundsAboveMax StockBoundsKind = "ABOVE_MAX"
)

// StockBoundsError el ajuste dejaría el stock fuera de [0, stockMax].
type StockBoundsError struct {
	Kind        StockBoundsKind
	WarehouseID string
	ProductID   string
	Current     int
	Delta       int
	StockMax    int
}

func (e *StockBoundsError) Error() string {
	if e.Kind == StockBoundsNegative {
		return fmt.Sprintf("el stock no puede ser negativo (actual: %d, ajuste: %d)", e.Current, e.Delta)
	}
	return fmt.Sprintf("el stock excedería el máximo permitido %d (actual: %d, ajuste: %d)", e.StockMax, e.Current, e.Delta)
}
