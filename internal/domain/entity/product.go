package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. El stock no vive aquí:
// se maneja por bodega en WarehouseStock.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // precio de venta
	UnitMeasure string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
