package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea de orden de compra.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest alta de orden de compra.
type CreatePurchaseOrderRequest struct {
	Number            string                     `json:"number"`
	SupplierID        string                     `json:"supplier_id"`
	WarehouseID       string                     `json:"warehouse_id"`
	Notes             string                     `json:"notes"`
	EstimatedDelivery *time.Time                 `json:"estimated_delivery"`
	Lines             []PurchaseOrderLineRequest `json:"lines"`
}

// ChangeOrderStateRequest transición manual de estado (APROBADA, ENVIADA,
// CANCELADA). La recepción tiene su propio endpoint.
type ChangeOrderStateRequest struct {
	State string `json:"state"`
}

// PurchaseOrderLineResponse línea con subtotal y cantidad recibida.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ReceivedQuantity int             `json:"received_quantity"`
}

// PurchaseOrderResponse orden con estado actual.
type PurchaseOrderResponse struct {
	ID                string                      `json:"id"`
	Number            string                      `json:"number"`
	SupplierID        string                      `json:"supplier_id"`
	WarehouseID       string                      `json:"warehouse_id"`
	State             string                      `json:"state"`
	Total             decimal.Decimal             `json:"total"`
	Notes             string                      `json:"notes,omitempty"`
	OrderDate         time.Time                   `json:"order_date"`
	EstimatedDelivery *time.Time                  `json:"estimated_delivery,omitempty"`
	ReceivedAt        *time.Time                  `json:"received_at,omitempty"`
	Lines             []PurchaseOrderLineResponse `json:"lines"`
}

// PurchaseOrderListResponse listado paginado de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
