package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
)

// MovementUseCase registra y consulta movimientos de inventario
// (ENTRADA, SALIDA, TRANSFERENCIA). Toda la mutación del libro de stock ocurre
// dentro de una transacción con bloqueo de fila: si cualquier línea falla un
// límite, ni el movimiento ni ningún ajuste quedan persistidos.
type MovementUseCase struct {
	txRunner      TxRunner
	movementRepo  repository.MovementRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	audit         AuditSink
	log           *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	audit AuditSink,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		audit:         audit,
		log:           log,
	}
}

// stockKey clave del libro de stock.
type stockKey struct {
	warehouseID string
	productID   string
}

// stockChange snapshot antes/después de un ajuste, para auditoría.
type stockChange struct {
	before entity.WarehouseStock
	after  entity.WarehouseStock
}

// Create valida y ejecuta un movimiento. Orden de validación: bodegas según
// tipo, pertenencia a la empresa de bodegas y productos, productos duplicados,
// y stock disponible en origen para SALIDA/TRANSFERENCIA (todas las líneas se
// verifican antes de mutar nada). La ejecución persiste el movimiento y aplica
// los ajustes en una sola transacción.
func (uc *MovementUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	// Bodegas requeridas según el tipo
	switch in.Type {
	case entity.MovementTypeEntrada:
		if in.DestinationID == "" || in.OriginID != "" {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeSalida:
		if in.OriginID == "" || in.DestinationID != "" {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeTransferencia:
		if in.OriginID == "" || in.DestinationID == "" {
			return nil, domain.ErrInvalidInput
		}
		if in.OriginID == in.DestinationID {
			return nil, domain.NewBusinessError(domain.CodeSameWarehouse,
				"la bodega origen y destino no pueden ser la misma")
		}
	default:
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

	var origin *entity.Warehouse
	if in.OriginID != "" {
		if origin, err = uc.resolveWarehouse(companyID, in.OriginID); err != nil {
			return nil, err
		}
	}
	if in.DestinationID != "" {
		if _, err = uc.resolveWarehouse(companyID, in.DestinationID); err != nil {
			return nil, err
		}
	}

	// Pertenencia de todos los productos antes del chequeo de duplicados
	products := make(map[string]*entity.Product, len(in.Lines))
	for _, line := range in.Lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := uc.resolveProduct(companyID, line.ProductID)
		if err != nil {
			return nil, err
		}
		products[line.ProductID] = product
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, line := range in.Lines {
		if seen[line.ProductID] {
			return nil, domain.NewBusinessError(domain.CodeDuplicateProduct,
				"producto duplicado en detalles: %s", line.ProductID)
		}
		seen[line.ProductID] = true
	}

	now := time.Now()
	movement := &entity.Movement{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Type:          in.Type,
		UserID:        userID,
		OriginID:      in.OriginID,
		DestinationID: in.DestinationID,
		Notes:         in.Notes,
		Date:          now,
		CreatedAt:     now,
	}
	for _, line := range in.Lines {
		movement.Lines = append(movement.Lines, entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: movement.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
		})
	}

	var changes []stockChange
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.WarehouseStockRepository,
		movRepo repository.MovementRepository,
	) error {
		locked := make(map[stockKey]*entity.WarehouseStock)

		// Pre-chequeo de stock en origen: todas las líneas, con la fila
		// bloqueada, antes de aplicar ajuste alguno.
		if movement.Type == entity.MovementTypeSalida || movement.Type == entity.MovementTypeTransferencia {
			for _, line := range movement.Lines {
				ws, err := stockRepo.GetForUpdate(movement.OriginID, line.ProductID)
				if err != nil {
					return err
				}
				available := 0
				if ws != nil {
					available = ws.Stock
				}
				if ws == nil || available < line.Quantity {
					return &domain.InsufficientStockError{
						ProductID:     line.ProductID,
						ProductName:   products[line.ProductID].Name,
						WarehouseID:   movement.OriginID,
						WarehouseName: origin.Name,
						Available:     available,
						Required:      line.Quantity,
					}
				}
				locked[stockKey{movement.OriginID, line.ProductID}] = ws
			}
		}

		if err := movRepo.Create(movement); err != nil {
			return err
		}

		apply := func(warehouseID, productID string, delta int) error {
			k := stockKey{warehouseID, productID}
			ws := locked[k]
			if ws == nil {
				var err error
				ws, err = stockRepo.GetForUpdate(warehouseID, productID)
				if err != nil {
					return err
				}
				if ws == nil {
					ws = inventory.NewWarehouseStock(companyID, warehouseID, productID, now)
					ws.ID = uuid.New().String()
				}
				locked[k] = ws
			}
			before, err := inventory.Adjust(ws, delta, now)
			if err != nil {
				return err
			}
			if err := stockRepo.Upsert(ws); err != nil {
				return err
			}
			changes = append(changes, stockChange{before: before, after: *ws})
			return nil
		}

		for _, line := range movement.Lines {
			switch movement.Type {
			case entity.MovementTypeEntrada:
				if err := apply(movement.DestinationID, line.ProductID, line.Quantity); err != nil {
					return err
				}
			case entity.MovementTypeSalida:
				if err := apply(movement.OriginID, line.ProductID, -line.Quantity); err != nil {
					return err
				}
			case entity.MovementTypeTransferencia:
				if err := apply(movement.OriginID, line.ProductID, -line.Quantity); err != nil {
					return err
				}
				if err := apply(movement.DestinationID, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", movement.ID).
		Str("type", movement.Type).
		Int("lines", len(movement.Lines)).
		Msg("movimiento registrado")

	uc.audit.Record(ctx, companyID, userID, "Movement", movement.ID, entity.AuditOpInsert, nil, movement)
	for _, c := range changes {
		uc.audit.Record(ctx, companyID, userID, "WarehouseStock", c.after.ID, entity.AuditOpUpdate, c.before, c.after)
	}

	return uc.toResponse(movement, newNameCache(uc.userRepo, uc.warehouseRepo, uc.productRepo))
}

// Delete elimina el registro del movimiento. Los efectos que causó sobre el
// inventario NO se revierten: la asimetría es intencional y queda en el log.
func (uc *MovementUseCase) Delete(ctx context.Context, companyID, userID, id string) error {
	movement, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return err
	}
	if movement == nil {
		return domain.ErrNotFound
	}
	if movement.CompanyID != companyID {
		return &domain.TenantMismatchError{Entity: "movimiento", ID: id}
	}
	if err := uc.movementRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Warn().
		Str("movement_id", id).
		Msg("movimiento eliminado; el inventario NO se revirtió")
	uc.audit.Record(ctx, companyID, userID, "Movement", id, entity.AuditOpDelete, movement, nil)
	return nil
}

// GetByID devuelve un movimiento con nombres resueltos.
func (uc *MovementUseCase) GetByID(companyID, id string) (*dto.MovementResponse, error) {
	movement, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if movement.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "movimiento", ID: id}
	}
	return uc.toResponse(movement, newNameCache(uc.userRepo, uc.warehouseRepo, uc.productRepo))
}

// List lista movimientos de la empresa, opcionalmente filtrados por tipo o bodega.
func (uc *MovementUseCase) List(companyID, movementType, warehouseID string, limit, offset int) (*dto.MovementListResponse, error) {
	var (
		list []*entity.Movement
		err  error
	)
	switch {
	case warehouseID != "":
		if _, err := uc.resolveWarehouse(companyID, warehouseID); err != nil {
			return nil, err
		}
		list, err = uc.movementRepo.ListByWarehouse(companyID, warehouseID, limit, offset)
	case movementType != "":
		list, err = uc.movementRepo.ListByType(companyID, movementType, limit, offset)
	default:
		list, err = uc.movementRepo.ListByCompany(companyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(list, limit, offset)
}

// Latest devuelve los últimos 10 movimientos de la empresa.
func (uc *MovementUseCase) Latest(companyID string) (*dto.MovementListResponse, error) {
	list, err := uc.movementRepo.ListLatest(companyID, 10)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(list, 10, 0)
}

func (uc *MovementUseCase) toListResponse(list []*entity.Movement, limit, offset int) (*dto.MovementListResponse, error) {
	cache := newNameCache(uc.userRepo, uc.warehouseRepo, uc.productRepo)
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		resp, err := uc.toResponse(m, cache)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func (uc *MovementUseCase) toResponse(m *entity.Movement, cache *nameCache) (*dto.MovementResponse, error) {
	resp := &dto.MovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		Date:        m.Date,
		User:        cache.userName(m.UserID),
		Origin:      cache.warehouseName(m.OriginID),
		Destination: cache.warehouseName(m.DestinationID),
		Notes:       m.Notes,
	}
	for _, line := range m.Lines {
		resp.Lines = append(resp.Lines, dto.MovementLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Product:   cache.productName(line.ProductID),
			Quantity:  line.Quantity,
		})
	}
	return resp, nil
}

func (uc *MovementUseCase) resolveWarehouse(companyID, id string) (*entity.Warehouse, error) {
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

func (uc *MovementUseCase) resolveProduct(companyID, id string) (*entity.Product, error) {
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

// nameCache resuelve nombres para respuestas y los memoriza durante una
// misma llamada (evita repetir consultas al listar).
type nameCache struct {
	userRepo      repository.UserRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	users         map[string]string
	warehouses    map[string]string
	products      map[string]string
}

func newNameCache(u repository.UserRepository, w repository.WarehouseRepository, p repository.ProductRepository) *nameCache {
	return &nameCache{
		userRepo:      u,
		warehouseRepo: w,
		productRepo:   p,
		users:         map[string]string{},
		warehouses:    map[string]string{},
		products:      map[string]string{},
	}
}

func (c *nameCache) userName(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := c.users[id]; ok {
		return name
	}
	name := id
	if u, err := c.userRepo.GetByID(id); err == nil && u != nil {
		name = u.Name
	}
	c.users[id] = name
	return name
}

func (c *nameCache) warehouseName(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := c.warehouses[id]; ok {
		return name
	}
	name := id
	if w, err := c.warehouseRepo.GetByID(id); err == nil && w != nil {
		name = w.Name
	}
	c.warehouses[id] = name
	return name
}

func (c *nameCache) productName(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := c.products[id]; ok {
		return name
	}
	name := id
	if p, err := c.productRepo.GetByID(id); err == nil && p != nil {
		name = p.Name
	}
	c.products[id] = name
	return name
}
