package dto

import "time"

// ReturnLineRequest línea de devolución.
type ReturnLineRequest struct {
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// CreateReturnRequest alta de devolución. SupplierID es obligatorio sólo para
// tipo A_PROVEEDOR. Number se genera si viene vacío.
type CreateReturnRequest struct {
	Type        string              `json:"type"`
	Number      string              `json:"number"`
	WarehouseID string              `json:"warehouse_id"`
	SupplierID  string              `json:"supplier_id"`
	Reason      string              `json:"reason"`
	Notes       string              `json:"notes"`
	Lines       []ReturnLineRequest `json:"lines"`
}

// UpdateReturnRequest corrige motivo y notas de una devolución no completada.
type UpdateReturnRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// RejectReturnRequest motivo de rechazo.
type RejectReturnRequest struct {
	Reason string `json:"reason"`
}

// ReturnLineResponse línea de devolución.
type ReturnLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// ReturnResponse devolución con estado actual.
type ReturnResponse struct {
	ID          string               `json:"id"`
	Number      string               `json:"number"`
	Type        string               `json:"type"`
	State       string               `json:"state"`
	WarehouseID string               `json:"warehouse_id"`
	SupplierID  string               `json:"supplier_id,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Date        time.Time            `json:"date"`
	Lines       []ReturnLineResponse `json:"lines"`
}

// ReturnListResponse listado paginado de devoluciones.
type ReturnListResponse struct {
	Items []ReturnResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
