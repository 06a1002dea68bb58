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
)

// StockUseCase administra el libro de stock: consultas, altas manuales,
// actualización de límites y el ajuste directo (corrección manual), que usa
// las mismas reglas de límites que los procesadores.
type StockUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.WarehouseStockRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	audit         AuditSink
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.WarehouseStockRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	audit AuditSink,
) *StockUseCase {
	return &StockUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		audit:         audit,
	}
}

// Adjust aplica un delta manual sobre una entrada, con bloqueo de fila y las
// reglas de límites de inventory.Adjust. Si la entrada no existe se
// aprovisiona con valores por defecto antes de aplicar el delta.
func (uc *StockUseCase) Adjust(ctx context.Context, companyID, userID string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if in.WarehouseID == "" || in.ProductID == "" || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.resolveWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.resolveProduct(companyID, in.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	var change stockChange
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.WarehouseStockRepository,
		_ repository.MovementRepository,
	) error {
		ws, err := stockRepo.GetForUpdate(in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		if ws == nil {
			ws = inventory.NewWarehouseStock(companyID, in.WarehouseID, in.ProductID, now)
			ws.ID = uuid.New().String()
		}
		before, err := inventory.Adjust(ws, in.Delta, now)
		if err != nil {
			return err
		}
		if err := stockRepo.Upsert(ws); err != nil {
			return err
		}
		change = stockChange{before: before, after: *ws}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, companyID, userID, "WarehouseStock", change.after.ID, entity.AuditOpUpdate, change.before, change.after)
	return toStockResponse(&change.after), nil
}

// Create crea manualmente una entrada de inventario (falla si ya existe).
func (uc *StockUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	if in.WarehouseID == "" || in.ProductID == "" || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := inventory.ValidateBounds(in.StockMin, in.StockMax); err != nil {
		return nil, err
	}
	if in.Stock > in.StockMax {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.resolveWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.resolveProduct(companyID, in.ProductID); err != nil {
		return nil, err
	}
	existing, err := uc.stockRepo.Get(in.WarehouseID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	ws := &entity.WarehouseStock{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Stock:       in.Stock,
		StockMin:    in.StockMin,
		StockMax:    in.StockMax,
		UpdatedAt:   time.Now(),
	}
	if err := uc.stockRepo.Upsert(ws); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "WarehouseStock", ws.ID, entity.AuditOpInsert, nil, ws)
	return toStockResponse(ws), nil
}

// UpdateBounds actualiza StockMin/StockMax de una entrada existente. El stock
// actual no se modifica, así que el nuevo máximo no puede quedar por debajo
// del stock presente: la entrada violaría 0 <= stock <= stockMax.
func (uc *StockUseCase) UpdateBounds(ctx context.Context, companyID, userID, warehouseID, productID string, in dto.UpdateStockBoundsRequest) (*dto.StockResponse, error) {
	if err := inventory.ValidateBounds(in.StockMin, in.StockMax); err != nil {
		return nil, err
	}
	if _, err := uc.resolveWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}
	ws, err := uc.stockRepo.Get(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	if ws.Stock > in.StockMax {
		return nil, &domain.StockBoundsError{
			Kind:        domain.StockBoundsAboveMax,
			WarehouseID: warehouseID,
			ProductID:   productID,
			Current:     ws.Stock,
			StockMax:    in.StockMax,
		}
	}
	before := *ws
	ws.StockMin = in.StockMin
	ws.StockMax = in.StockMax
	ws.UpdatedAt = time.Now()
	if err := uc.stockRepo.Upsert(ws); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, companyID, userID, "WarehouseStock", ws.ID, entity.AuditOpUpdate, before, ws)
	return toStockResponse(ws), nil
}

// Get devuelve la entrada de una clave (bodega, producto).
func (uc *StockUseCase) Get(companyID, warehouseID, productID string) (*dto.StockResponse, error) {
	if _, err := uc.resolveWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}
	ws, err := uc.stockRepo.Get(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	return toStockResponse(ws), nil
}

// List lista el inventario de la empresa, o de una bodega si warehouseID no es vacío.
func (uc *StockUseCase) List(companyID, warehouseID string, limit, offset int) (*dto.StockListResponse, error) {
	var (
		list []*entity.WarehouseStock
		err  error
	)
	if warehouseID != "" {
		if _, err := uc.resolveWarehouse(companyID, warehouseID); err != nil {
			return nil, err
		}
		list, err = uc.stockRepo.ListByWarehouse(warehouseID, limit, offset)
	} else {
		list, err = uc.stockRepo.ListByCompany(companyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return toStockListResponse(list, limit, offset), nil
}

// ListLow lista entradas con stock por debajo del mínimo.
func (uc *StockUseCase) ListLow(companyID string) (*dto.StockListResponse, error) {
	list, err := uc.stockRepo.ListLowStock(companyID)
	if err != nil {
		return nil, err
	}
	return toStockListResponse(list, len(list), 0), nil
}

// TotalByProduct suma el stock de un producto en todas las bodegas de la empresa.
func (uc *StockUseCase) TotalByProduct(companyID, productID string) (int, error) {
	if _, err := uc.resolveProduct(companyID, productID); err != nil {
		return 0, err
	}
	return uc.stockRepo.TotalByProduct(companyID, productID)
}

// Delete borrado administrativo de una entrada (los procesadores nunca borran).
func (uc *StockUseCase) Delete(ctx context.Context, companyID, userID, warehouseID, productID string) error {
	if _, err := uc.resolveWarehouse(companyID, warehouseID); err != nil {
		return err
	}
	ws, err := uc.stockRepo.Get(warehouseID, productID)
	if err != nil {
		return err
	}
	if ws == nil {
		return domain.ErrNotFound
	}
	if err := uc.stockRepo.Delete(warehouseID, productID); err != nil {
		return err
	}
	uc.audit.Record(ctx, companyID, userID, "WarehouseStock", ws.ID, entity.AuditOpDelete, ws, nil)
	return nil
}

func (uc *StockUseCase) resolveWarehouse(companyID, id string) (*entity.Warehouse, error) {
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

func (uc *StockUseCase) resolveProduct(companyID, id string) (*entity.Product, error) {
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

func toStockResponse(ws *entity.WarehouseStock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:          ws.ID,
		CompanyID:   ws.CompanyID,
		WarehouseID: ws.WarehouseID,
		ProductID:   ws.ProductID,
		Stock:       ws.Stock,
		StockMin:    ws.StockMin,
		StockMax:    ws.StockMax,
		UpdatedAt:   ws.UpdatedAt,
	}
}

func toStockListResponse(list []*entity.WarehouseStock, limit, offset int) *dto.StockListResponse {
	items := make([]dto.StockResponse, 0, len(list))
	for _, ws := range list {
		items = append(items, *toStockResponse(ws))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}
}
