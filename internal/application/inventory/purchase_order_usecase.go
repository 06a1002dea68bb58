package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
)

// PurchaseOrderUseCase administra órdenes de compra. El único punto donde una
// orden toca el inventario es la recepción: todas las líneas incrementan el
// stock de la bodega destino en una sola transacción, junto con el paso a
// RECIBIDA.
type PurchaseOrderUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.PurchaseOrderRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	supplierRepo  repository.SupplierRepository
	userRepo      repository.UserRepository
	audit         AuditSink
	log           *logger.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
	audit AuditSink,
	log *logger.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		userRepo:      userRepo,
		audit:         audit,
		log:           log,
	}
}

// Create registra una orden en estado PENDIENTE. El total es la suma de
// unitPrice * quantity por línea, con aritmética decimal. El número se genera
// (OC- + millis) si no se envía; si ya existe en la empresa se rechaza con
// DUPLICATE_NUMBER.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	actor, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	if actor.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "usuario", ID: userID}
	}

	if _, err := uc.resolveWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.resolveSupplier(companyID, in.SupplierID); err != nil {
		return nil, err
	}
	for _, line := range in.Lines {
		if _, err := uc.resolveProduct(companyID, line.ProductID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	number := in.Number
	if number == "" {
		number = fmt.Sprintf("OC-%d", now.UnixMilli())
	}
	existing, err := uc.orderRepo.GetByNumber(companyID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewBusinessError(domain.CodeDuplicateNumber,
			"ya existe una orden de compra con número %s", number)
	}

	order := &entity.PurchaseOrder{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		Number:            number,
		SupplierID:        in.SupplierID,
		WarehouseID:       in.WarehouseID,
		UserID:            userID,
		State:             entity.OrderStatePendiente,
		Total:             decimal.Zero,
		Notes:             in.Notes,
		OrderDate:         now,
		EstimatedDelivery: in.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	total := decimal.Zero
	for _, line := range in.Lines {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Lines = append(order.Lines, entity.PurchaseOrderLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	order.Total = total

	if err := uc.orderRepo.Create(order); err != nil {
		// El chequeo previo no cubre dos creaciones concurrentes con el mismo
		// número; la constraint única lo reporta como duplicado.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewBusinessError(domain.CodeDuplicateNumber,
				"ya existe una orden de compra con número %s", number)
		}
		return nil, err
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("number", order.Number).
		Str("total", order.Total.String()).
		Msg("orden de compra registrada")
	uc.audit.Record(ctx, companyID, userID, "PurchaseOrder", order.ID, entity.AuditOpInsert, nil, order)
	return toOrderResponse(order), nil
}

// ChangeState aplica una transición manual: APROBADA sólo desde PENDIENTE,
// ENVIADA sólo desde APROBADA, CANCELADA desde cualquier estado no terminal.
// RECIBIDA nunca se alcanza por aquí; la recepción usa Receive.
func (uc *PurchaseOrderUseCase) ChangeState(ctx context.Context, companyID, userID, id string, in dto.ChangeOrderStateRequest) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if order.State == entity.OrderStateRecibida || order.State == entity.OrderStateCancelada {
		return nil, domain.NewBusinessError(domain.CodeTerminalState,
			"la orden está en estado terminal %s", order.State)
	}

	switch in.State {
	case entity.OrderStateAprobada:
		if order.State != entity.OrderStatePendiente {
			return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
				"no se puede aprobar una orden en estado %s", order.State)
		}
	case entity.OrderStateEnviada:
		if order.State != entity.OrderStateAprobada {
			return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
				"no se puede marcar como enviada una orden en estado %s", order.State)
		}
	case entity.OrderStateCancelada:
		// cancelable desde cualquier estado no terminal
	default:
		return nil, domain.ErrInvalidInput
	}

	before := *order
	order.State = in.State
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "PurchaseOrder", order.ID, entity.AuditOpUpdate, before, order)
	return toOrderResponse(order), nil
}

// Receive incrementa el stock de la bodega destino con la cantidad pedida de
// cada línea y marca la orden RECIBIDA, en una sola transacción. Una orden ya
// RECIBIDA o CANCELADA no se puede recibir.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, companyID, userID, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if order.State == entity.OrderStateRecibida || order.State == entity.OrderStateCancelada {
		return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
			"no se puede recibir una orden en estado %s", order.State)
	}

	now := time.Now()
	before := *order
	var changes []stockChange
	err = uc.txRunner.RunOrders(ctx, func(
		stockRepo repository.WarehouseStockRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		for i := range order.Lines {
			line := &order.Lines[i]
			ws, err := stockRepo.GetForUpdate(order.WarehouseID, line.ProductID)
			if err != nil {
				return err
			}
			if ws == nil {
				ws = inventory.NewWarehouseStock(companyID, order.WarehouseID, line.ProductID, now)
				ws.ID = uuid.New().String()
			}
			chBefore, err := inventory.Adjust(ws, line.Quantity, now)
			if err != nil {
				return err
			}
			if err := stockRepo.Upsert(ws); err != nil {
				return err
			}
			line.ReceivedQuantity = line.Quantity
			changes = append(changes, stockChange{before: chBefore, after: *ws})
		}
		order.State = entity.OrderStateRecibida
		order.ReceivedAt = &now
		order.UpdatedAt = now
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("number", order.Number).
		Int("lines", len(order.Lines)).
		Msg("orden de compra recibida")
	uc.audit.Record(ctx, companyID, userID, "PurchaseOrder", order.ID, entity.AuditOpUpdate, before, order)
	for _, c := range changes {
		uc.audit.Record(ctx, companyID, userID, "WarehouseStock", c.after.ID, entity.AuditOpUpdate, c.before, c.after)
	}
	return toOrderResponse(order), nil
}

// Delete elimina una orden no recibida. Una RECIBIDA no se puede borrar
// porque el stock que generó ya está en el libro.
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, companyID, userID, id string) error {
	order, err := uc.getOwned(companyID, id)
	if err != nil {
		return err
	}
	if order.State == entity.OrderStateRecibida {
		return domain.NewBusinessError(domain.CodeTerminalState,
			"una orden RECIBIDA no se puede eliminar")
	}
	if err := uc.orderRepo.Delete(id); err != nil {
		return err
	}
	uc.audit.Record(ctx, companyID, userID, "PurchaseOrder", id, entity.AuditOpDelete, order, nil)
	return nil
}

// GetByID devuelve una orden de la empresa.
func (uc *PurchaseOrderUseCase) GetByID(companyID, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByNumber busca por número dentro de la empresa.
func (uc *PurchaseOrderUseCase) GetByNumber(companyID, number string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orderRepo.GetByNumber(companyID, number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// List lista órdenes de la empresa, con filtro opcional por estado.
func (uc *PurchaseOrderUseCase) List(companyID, state string, limit, offset int) (*dto.PurchaseOrderListResponse, error) {
	var (
		list []*entity.PurchaseOrder
		err  error
	)
	if state != "" {
		list, err = uc.orderRepo.ListByState(companyID, state, limit, offset)
	} else {
		list, err = uc.orderRepo.ListByCompany(companyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, order := range list {
		items = append(items, *toOrderResponse(order))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func (uc *PurchaseOrderUseCase) getOwned(companyID, id string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "orden de compra", ID: id}
	}
	return order, nil
}

func (uc *PurchaseOrderUseCase) resolveWarehouse(companyID, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "bodega", ID: id}
	}
	return warehouse, nil
}

func (uc *PurchaseOrderUseCase) resolveProduct(companyID, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "producto", ID: id}
	}
	return product, nil
}

func (uc *PurchaseOrderUseCase) resolveSupplier(companyID, id string) (*entity.Supplier, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "proveedor", ID: id}
	}
	return supplier, nil
}

func toOrderResponse(order *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:                order.ID,
		Number:            order.Number,
		SupplierID:        order.SupplierID,
		WarehouseID:       order.WarehouseID,
		State:             order.State,
		Total:             order.Total,
		Notes:             order.Notes,
		OrderDate:         order.OrderDate,
		EstimatedDelivery: order.EstimatedDelivery,
		ReceivedAt:        order.ReceivedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, dto.PurchaseOrderLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			Subtotal:         line.Subtotal,
			ReceivedQuantity: line.ReceivedQuantity,
		})
	}
	return resp
}
