package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
)

// ReturnUseCase administra devoluciones a proveedor y de cliente. Crear una
// devolución no toca el inventario; los efectos se aplican al completarla,
// dentro de una transacción todo-o-nada junto con el cambio de estado.
type ReturnUseCase struct {
	txRunner      TxRunner
	returnRepo    repository.ReturnRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	supplierRepo  repository.SupplierRepository
	batchRepo     repository.BatchRepository
	userRepo      repository.UserRepository
	audit         AuditSink
	log           *logger.Logger
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	txRunner TxRunner,
	returnRepo repository.ReturnRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	batchRepo repository.BatchRepository,
	userRepo repository.UserRepository,
	audit AuditSink,
	log *logger.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{
		txRunner:      txRunner,
		returnRepo:    returnRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		batchRepo:     batchRepo,
		userRepo:      userRepo,
		audit:         audit,
		log:           log,
	}
}

// Create registra una devolución en estado PENDIENTE. El número se genera
// (DP-/DC- + millis) si no se envía; si se envía y ya existe en la empresa se
// rechaza con DUPLICATE_NUMBER.
func (uc *ReturnUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.Type != entity.ReturnTypeAProveedor && in.Type != entity.ReturnTypeDeCliente {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Type == entity.ReturnTypeAProveedor && in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
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
	if in.SupplierID != "" {
		if _, err := uc.resolveSupplier(companyID, in.SupplierID); err != nil {
			return nil, err
		}
	}
	for _, line := range in.Lines {
		product, err := uc.resolveProduct(companyID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.BatchID != "" {
			if err := uc.checkBatch(companyID, product.ID, line.BatchID); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	number := in.Number
	if number == "" {
		number = generateReturnNumber(in.Type, now)
	}
	existing, err := uc.returnRepo.GetByNumber(companyID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewBusinessError(domain.CodeDuplicateNumber,
			"ya existe una devolución con número %s", number)
	}

	ret := &entity.Return{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Number:      number,
		Type:        in.Type,
		State:       entity.ReturnStatePendiente,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		UserID:      userID,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, line := range in.Lines {
		ret.Lines = append(ret.Lines, entity.ReturnLine{
			ID:        uuid.New().String(),
			ReturnID:  ret.ID,
			ProductID: line.ProductID,
			BatchID:   line.BatchID,
			Quantity:  line.Quantity,
			Reason:    line.Reason,
		})
	}
	if err := uc.returnRepo.Create(ret); err != nil {
		// El chequeo previo no cubre dos creaciones concurrentes con el mismo
		// número; la constraint única lo reporta como duplicado.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewBusinessError(domain.CodeDuplicateNumber,
				"ya existe una devolución con número %s", number)
		}
		return nil, err
	}

	uc.log.Info().
		Str("return_id", ret.ID).
		Str("number", ret.Number).
		Str("type", ret.Type).
		Msg("devolución registrada")
	uc.audit.Record(ctx, companyID, userID, "Return", ret.ID, entity.AuditOpInsert, nil, ret)
	return toReturnResponse(ret), nil
}

// Approve pasa una devolución de PENDIENTE a APROBADA.
func (uc *ReturnUseCase) Approve(ctx context.Context, companyID, userID, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if ret.State != entity.ReturnStatePendiente {
		return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
			"no se puede aprobar una devolución en estado %s", ret.State)
	}
	before := *ret
	ret.State = entity.ReturnStateAprobada
	ret.UpdatedAt = time.Now()
	if err := uc.returnRepo.Update(ret); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "Return", ret.ID, entity.AuditOpUpdate, before, ret)
	return toReturnResponse(ret), nil
}

// Complete aplica los efectos de inventario de una devolución APROBADA y la
// marca COMPLETADA, todo en una transacción. A_PROVEEDOR descuenta del stock
// (la entrada debe existir y alcanzar); DE_CLIENTE suma, aprovisionando la
// entrada con valores por defecto si no existe.
func (uc *ReturnUseCase) Complete(ctx context.Context, companyID, userID, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if ret.State != entity.ReturnStateAprobada {
		return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
			"sólo se puede completar una devolución APROBADA (estado actual: %s)", ret.State)
	}

	now := time.Now()
	before := *ret
	var changes []stockChange
	err = uc.txRunner.RunReturns(ctx, func(
		stockRepo repository.WarehouseStockRepository,
		retRepo repository.ReturnRepository,
	) error {
		for _, line := range ret.Lines {
			ws, err := stockRepo.GetForUpdate(ret.WarehouseID, line.ProductID)
			if err != nil {
				return err
			}
			switch ret.Type {
			case entity.ReturnTypeAProveedor:
				available := 0
				if ws != nil {
					available = ws.Stock
				}
				if ws == nil || available < line.Quantity {
					return &domain.InsufficientStockError{
						ProductID:     line.ProductID,
						ProductName:   uc.productName(line.ProductID),
						WarehouseID:   ret.WarehouseID,
						WarehouseName: uc.warehouseName(ret.WarehouseID),
						Available:     available,
						Required:      line.Quantity,
					}
				}
				chBefore, err := inventory.Adjust(ws, -line.Quantity, now)
				if err != nil {
					return err
				}
				if err := stockRepo.Upsert(ws); err != nil {
					return err
				}
				changes = append(changes, stockChange{before: chBefore, after: *ws})
			case entity.ReturnTypeDeCliente:
				if ws == nil {
					ws = inventory.NewWarehouseStock(companyID, ret.WarehouseID, line.ProductID, now)
					ws.ID = uuid.New().String()
				}
				chBefore, err := inventory.Adjust(ws, line.Quantity, now)
				if err != nil {
					return err
				}
				if err := stockRepo.Upsert(ws); err != nil {
					return err
				}
				changes = append(changes, stockChange{before: chBefore, after: *ws})
			}
		}
		ret.State = entity.ReturnStateCompletada
		ret.UpdatedAt = now
		return retRepo.Update(ret)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("return_id", ret.ID).
		Str("number", ret.Number).
		Str("type", ret.Type).
		Int("lines", len(ret.Lines)).
		Msg("devolución completada")
	uc.audit.Record(ctx, companyID, userID, "Return", ret.ID, entity.AuditOpUpdate, before, ret)
	for _, c := range changes {
		uc.audit.Record(ctx, companyID, userID, "WarehouseStock", c.after.ID, entity.AuditOpUpdate, c.before, c.after)
	}
	return toReturnResponse(ret), nil
}

// Reject marca una devolución como RECHAZADA y acumula el motivo en las
// notas. Se admite desde PENDIENTE, APROBADA o RECHAZADA; nunca desde
// COMPLETADA porque sus efectos ya se aplicaron.
func (uc *ReturnUseCase) Reject(ctx context.Context, companyID, userID, id string, in dto.RejectReturnRequest) (*dto.ReturnResponse, error) {
	if in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if ret.State == entity.ReturnStateCompletada {
		return nil, domain.NewBusinessError(domain.CodeInvalidTransition,
			"no se puede rechazar una devolución COMPLETADA")
	}
	before := *ret
	ret.State = entity.ReturnStateRechazada
	if ret.Notes != "" {
		ret.Notes += "\n"
	}
	ret.Notes += fmt.Sprintf("Motivo de rechazo: %s", in.Reason)
	ret.UpdatedAt = time.Now()
	if err := uc.returnRepo.Update(ret); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "Return", ret.ID, entity.AuditOpUpdate, before, ret)
	return toReturnResponse(ret), nil
}

// Update corrige motivo y notas. Una devolución COMPLETADA es inmutable.
func (uc *ReturnUseCase) Update(ctx context.Context, companyID, userID, id string, in dto.UpdateReturnRequest) (*dto.ReturnResponse, error) {
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if ret.State == entity.ReturnStateCompletada {
		return nil, domain.NewBusinessError(domain.CodeTerminalState,
			"una devolución COMPLETADA no se puede modificar")
	}
	before := *ret
	ret.Reason = in.Reason
	ret.Notes = in.Notes
	ret.UpdatedAt = time.Now()
	if err := uc.returnRepo.Update(ret); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "Return", ret.ID, entity.AuditOpUpdate, before, ret)
	return toReturnResponse(ret), nil
}

// Delete elimina una devolución no completada. Una COMPLETADA no se puede
// borrar porque sus efectos de inventario ya están aplicados.
func (uc *ReturnUseCase) Delete(ctx context.Context, companyID, userID, id string) error {
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return err
	}
	if ret.State == entity.ReturnStateCompletada {
		return domain.NewBusinessError(domain.CodeTerminalState,
			"una devolución COMPLETADA no se puede eliminar")
	}
	if err := uc.returnRepo.Delete(id); err != nil {
		return err
	}
	uc.audit.Record(ctx, companyID, userID, "Return", id, entity.AuditOpDelete, ret, nil)
	return nil
}

// GetByID devuelve una devolución de la empresa.
func (uc *ReturnUseCase) GetByID(companyID, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret), nil
}

// GetByNumber busca por número dentro de la empresa.
func (uc *ReturnUseCase) GetByNumber(companyID, number string) (*dto.ReturnResponse, error) {
	ret, err := uc.returnRepo.GetByNumber(companyID, number)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	return toReturnResponse(ret), nil
}

// List lista devoluciones de la empresa, con filtros opcionales por tipo o estado.
func (uc *ReturnUseCase) List(companyID, returnType, state string, limit, offset int) (*dto.ReturnListResponse, error) {
	var (
		list []*entity.Return
		err  error
	)
	switch {
	case returnType != "":
		list, err = uc.returnRepo.ListByType(companyID, returnType, limit, offset)
	case state != "":
		list, err = uc.returnRepo.ListByState(companyID, state, limit, offset)
	default:
		list, err = uc.returnRepo.ListByCompany(companyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReturnResponse, 0, len(list))
	for _, ret := range list {
		items = append(items, *toReturnResponse(ret))
	}
	return &dto.ReturnListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func (uc *ReturnUseCase) getOwned(companyID, id string) (*entity.Return, error) {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	if ret.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "devolución", ID: id}
	}
	return ret, nil
}

func (uc *ReturnUseCase) resolveWarehouse(companyID, id string) (*entity.Warehouse, error) {
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

func (uc *ReturnUseCase) resolveProduct(companyID, id string) (*entity.Product, error) {
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

func (uc *ReturnUseCase) resolveSupplier(companyID, id string) (*entity.Supplier, error) {
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

// checkBatch verifica que el lote exista, sea de la empresa y del producto.
func (uc *ReturnUseCase) checkBatch(companyID, productID, batchID string) error {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return &domain.TenantMismatchError{Entity: "lote", ID: batchID}
	}
	if batch.ProductID != productID {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *ReturnUseCase) productName(id string) string {
	if p, err := uc.productRepo.GetByID(id); err == nil && p != nil {
		return p.Name
	}
	return id
}

func (uc *ReturnUseCase) warehouseName(id string) string {
	if w, err := uc.warehouseRepo.GetByID(id); err == nil && w != nil {
		return w.Name
	}
	return id
}

// generateReturnNumber genera DP-<millis> para A_PROVEEDOR y DC-<millis>
// para DE_CLIENTE.
func generateReturnNumber(returnType string, now time.Time) string {
	prefix := "DC"
	if returnType == entity.ReturnTypeAProveedor {
		prefix = "DP"
	}
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}

func toReturnResponse(ret *entity.Return) *dto.ReturnResponse {
	resp := &dto.ReturnResponse{
		ID:          ret.ID,
		Number:      ret.Number,
		Type:        ret.Type,
		State:       ret.State,
		WarehouseID: ret.WarehouseID,
		SupplierID:  ret.SupplierID,
		Reason:      ret.Reason,
		Notes:       ret.Notes,
		Date:        ret.Date,
	}
	for _, line := range ret.Lines {
		resp.Lines = append(resp.Lines, dto.ReturnLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			BatchID:   line.BatchID,
			Quantity:  line.Quantity,
			Reason:    line.Reason,
		})
	}
	return resp
}
