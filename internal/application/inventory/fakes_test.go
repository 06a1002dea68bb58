package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	appinv "github.com/arrublas1208/logitrack-api/internal/application/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
)

func noplog() *logger.Logger { return logger.NewNop() }

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: un almacén compartido, repositorios sobre él y un
// TxRunner que simula commit/rollback restaurando snapshots del almacén.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	stocks    map[string]*entity.WarehouseStock // clave warehouseID|productID
	movements map[string]*entity.Movement
	returns   map[string]*entity.Return
	orders    map[string]*entity.PurchaseOrder

	// failUpsertAt provoca un error en el N-ésimo Upsert (1-based) para
	// probar el rollback; 0 lo desactiva.
	failUpsertAt int
	upserts      int

	// createErr hace fallar el próximo Create de devolución u orden con este
	// error, como haría la constraint única ante una creación concurrente.
	createErr error
}

func (s *fakeStore) takeCreateErr() error {
	err := s.createErr
	s.createErr = nil
	return err
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stocks:    map[string]*entity.WarehouseStock{},
		movements: map[string]*entity.Movement{},
		returns:   map[string]*entity.Return{},
		orders:    map[string]*entity.PurchaseOrder{},
	}
}

func stockKeyOf(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

// cloneReturn y cloneOrder copian la entidad con sus líneas: los dobles deben
// comportarse como una BD (valores, no aliasing de memoria).
func cloneReturn(ret *entity.Return) *entity.Return {
	c := *ret
	c.Lines = append([]entity.ReturnLine(nil), ret.Lines...)
	return &c
}

func cloneOrder(order *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *order
	c.Lines = append([]entity.PurchaseOrderLine(nil), order.Lines...)
	return &c
}

func (s *fakeStore) snapshotStocks() map[string]*entity.WarehouseStock {
	out := make(map[string]*entity.WarehouseStock, len(s.stocks))
	for k, v := range s.stocks {
		c := *v
		out[k] = &c
	}
	return out
}

// fakeTxRunner ejecuta fn sobre el almacén y, si fn falla, restaura los
// snapshots tomados antes de ejecutarla.
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.WarehouseStockRepository,
	movRepo repository.MovementRepository,
) error) error {
	stocks := r.store.snapshotStocks()
	movements := make(map[string]*entity.Movement, len(r.store.movements))
	for k, v := range r.store.movements {
		movements[k] = v
	}
	if err := fn(&fakeStockRepo{store: r.store}, &fakeMovementRepo{store: r.store}); err != nil {
		r.store.stocks = stocks
		r.store.movements = movements
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunReturns(ctx context.Context, fn func(
	stockRepo repository.WarehouseStockRepository,
	retRepo repository.ReturnRepository,
) error) error {
	stocks := r.store.snapshotStocks()
	returns := make(map[string]*entity.Return, len(r.store.returns))
	for k, v := range r.store.returns {
		returns[k] = cloneReturn(v)
	}
	if err := fn(&fakeStockRepo{store: r.store}, &fakeReturnRepo{store: r.store}); err != nil {
		r.store.stocks = stocks
		r.store.returns = returns
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunOrders(ctx context.Context, fn func(
	stockRepo repository.WarehouseStockRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	stocks := r.store.snapshotStocks()
	orders := make(map[string]*entity.PurchaseOrder, len(r.store.orders))
	for k, v := range r.store.orders {
		orders[k] = cloneOrder(v)
	}
	if err := fn(&fakeStockRepo{store: r.store}, &fakeOrderRepo{store: r.store}); err != nil {
		r.store.stocks = stocks
		r.store.orders = orders
		return err
	}
	return nil
}

// ── stock ────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	store *fakeStore
}

func (r *fakeStockRepo) Get(warehouseID, productID string) (*entity.WarehouseStock, error) {
	ws, ok := r.store.stocks[stockKeyOf(warehouseID, productID)]
	if !ok {
		return nil, nil
	}
	c := *ws
	return &c, nil
}

func (r *fakeStockRepo) GetForUpdate(warehouseID, productID string) (*entity.WarehouseStock, error) {
	return r.Get(warehouseID, productID)
}

func (r *fakeStockRepo) Upsert(stock *entity.WarehouseStock) error {
	r.store.upserts++
	if r.store.failUpsertAt > 0 && r.store.upserts == r.store.failUpsertAt {
		return fmt.Errorf("upsert forzado a fallar (%d)", r.store.upserts)
	}
	c := *stock
	r.store.stocks[stockKeyOf(stock.WarehouseID, stock.ProductID)] = &c
	return nil
}

func (r *fakeStockRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, ws := range r.store.stocks {
		if ws.CompanyID == companyID {
			c := *ws
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, ws := range r.store.stocks {
		if ws.WarehouseID == warehouseID {
			c := *ws
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStockRepo) ListLowStock(companyID string) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, ws := range r.store.stocks {
		if ws.CompanyID == companyID && ws.Stock < ws.StockMin {
			c := *ws
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) TotalByProduct(companyID, productID string) (int, error) {
	total := 0
	for _, ws := range r.store.stocks {
		if ws.CompanyID == companyID && ws.ProductID == productID {
			total += ws.Stock
		}
	}
	return total, nil
}

func (r *fakeStockRepo) Delete(warehouseID, productID string) error {
	delete(r.store.stocks, stockKeyOf(warehouseID, productID))
	return nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	store *fakeStore
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.store.movements[m.ID] = m
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	return r.store.movements[id], nil
}

func (r *fakeMovementRepo) list(filter func(*entity.Movement) bool) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if filter(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *fakeMovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool { return m.CompanyID == companyID }), nil
}

func (r *fakeMovementRepo) ListByType(companyID, movementType string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool {
		return m.CompanyID == companyID && m.Type == movementType
	}), nil
}

func (r *fakeMovementRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool {
		return m.CompanyID == companyID && (m.OriginID == warehouseID || m.DestinationID == warehouseID)
	}), nil
}

func (r *fakeMovementRepo) ListLatest(companyID string, limit int) ([]*entity.Movement, error) {
	out := r.list(func(m *entity.Movement) bool { return m.CompanyID == companyID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	delete(r.store.movements, id)
	return nil
}

// ── devoluciones ─────────────────────────────────────────────────────────────

type fakeReturnRepo struct {
	store *fakeStore
}

func (r *fakeReturnRepo) Create(ret *entity.Return) error {
	if err := r.store.takeCreateErr(); err != nil {
		return err
	}
	r.store.returns[ret.ID] = cloneReturn(ret)
	return nil
}

func (r *fakeReturnRepo) GetByID(id string) (*entity.Return, error) {
	ret, ok := r.store.returns[id]
	if !ok {
		return nil, nil
	}
	return cloneReturn(ret), nil
}

func (r *fakeReturnRepo) GetByNumber(companyID, number string) (*entity.Return, error) {
	for _, ret := range r.store.returns {
		if ret.CompanyID == companyID && ret.Number == number {
			return cloneReturn(ret), nil
		}
	}
	return nil, nil
}

func (r *fakeReturnRepo) Update(ret *entity.Return) error {
	r.store.returns[ret.ID] = cloneReturn(ret)
	return nil
}

func (r *fakeReturnRepo) list(filter func(*entity.Return) bool) []*entity.Return {
	var out []*entity.Return
	for _, ret := range r.store.returns {
		if filter(ret) {
			out = append(out, cloneReturn(ret))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *fakeReturnRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Return, error) {
	return r.list(func(ret *entity.Return) bool { return ret.CompanyID == companyID }), nil
}

func (r *fakeReturnRepo) ListByType(companyID, returnType string, limit, offset int) ([]*entity.Return, error) {
	return r.list(func(ret *entity.Return) bool {
		return ret.CompanyID == companyID && ret.Type == returnType
	}), nil
}

func (r *fakeReturnRepo) ListByState(companyID, state string, limit, offset int) ([]*entity.Return, error) {
	return r.list(func(ret *entity.Return) bool {
		return ret.CompanyID == companyID && ret.State == state
	}), nil
}

func (r *fakeReturnRepo) Delete(id string) error {
	delete(r.store.returns, id)
	return nil
}

// ── órdenes de compra ────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(order *entity.PurchaseOrder) error {
	if err := r.store.takeCreateErr(); err != nil {
		return err
	}
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) GetByNumber(companyID, number string) (*entity.PurchaseOrder, error) {
	for _, order := range r.store.orders {
		if order.CompanyID == companyID && order.Number == number {
			return cloneOrder(order), nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Update(order *entity.PurchaseOrder) error {
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, order := range r.store.orders {
		if order.CompanyID == companyID {
			out = append(out, cloneOrder(order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeOrderRepo) ListByState(companyID, state string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, order := range r.store.orders {
		if order.CompanyID == companyID && order.State == state {
			out = append(out, cloneOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	delete(r.store.orders, id)
	return nil
}

// ── catálogos ────────────────────────────────────────────────────────────────

type fakeWarehouseRepo struct {
	items map[string]*entity.Warehouse
}

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { r.items[w.ID] = w; return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.items[id], nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { r.items[w.ID] = w; return nil }
func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.items {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}
func (r *fakeWarehouseRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeProductRepo struct {
	items map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.items[id], nil
}
func (r *fakeProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.items {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.items {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeSupplierRepo struct {
	items map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { r.items[s.ID] = s; return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.items[id], nil
}
func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { r.items[s.ID] = s; return nil }
func (r *fakeSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.items {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (r *fakeSupplierRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeBatchRepo struct {
	items map[string]*entity.Batch
}

func (r *fakeBatchRepo) Create(b *entity.Batch) error { r.items[b.ID] = b; return nil }
func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	return r.items[id], nil
}
func (r *fakeBatchRepo) Update(b *entity.Batch) error { r.items[b.ID] = b; return nil }
func (r *fakeBatchRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.items {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *fakeBatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.items {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *fakeBatchRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeUserRepo struct {
	items map[string]*entity.User
}

func (r *fakeUserRepo) Create(u *entity.User) error { r.items[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.items[id], nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.items {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.items {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}
func (r *fakeUserRepo) Update(u *entity.User) error { r.items[u.ID] = u; return nil }

// ── auditoría ────────────────────────────────────────────────────────────────

type auditRecord struct {
	entity    string
	entityID  string
	operation string
}

type fakeAudit struct {
	records []auditRecord
}

func (a *fakeAudit) Record(ctx context.Context, companyID, userID, auditedEntity, entityID, operation string, before, after any) {
	a.records = append(a.records, auditRecord{entity: auditedEntity, entityID: entityID, operation: operation})
}

func (a *fakeAudit) ops(auditedEntity string) []string {
	var out []string
	for _, rec := range a.records {
		if rec.entity == auditedEntity {
			out = append(out, rec.operation)
		}
	}
	return out
}

// ── fixture ──────────────────────────────────────────────────────────────────

// fixture monta el almacén, los repositorios y los casos de uso con datos
// mínimos de dos empresas: co-1 (la empresa bajo prueba) y co-2 (la ajena).
type fixture struct {
	store      *fakeStore
	txRunner   *fakeTxRunner
	audit      *fakeAudit
	warehouses *fakeWarehouseRepo
	products   *fakeProductRepo
	suppliers  *fakeSupplierRepo
	batches    *fakeBatchRepo
	users      *fakeUserRepo
}

const (
	coID      = "co-1"
	otherCoID = "co-2"
	userID    = "u-1"
	wh1       = "wh-1"
	wh2       = "wh-2"
	whOther   = "wh-ajena"
	pr1       = "pr-1"
	pr2       = "pr-2"
	sup1      = "sup-1"
	batch1    = "lote-1"
)

func newFixture() *fixture {
	f := &fixture{
		store:      newFakeStore(),
		audit:      &fakeAudit{},
		warehouses: &fakeWarehouseRepo{items: map[string]*entity.Warehouse{}},
		products:   &fakeProductRepo{items: map[string]*entity.Product{}},
		suppliers:  &fakeSupplierRepo{items: map[string]*entity.Supplier{}},
		batches:    &fakeBatchRepo{items: map[string]*entity.Batch{}},
		users:      &fakeUserRepo{items: map[string]*entity.User{}},
	}
	f.txRunner = &fakeTxRunner{store: f.store}

	f.users.items[userID] = &entity.User{ID: userID, CompanyID: coID, Name: "Ana", Email: "ana@co1.com"}
	f.warehouses.items[wh1] = &entity.Warehouse{ID: wh1, CompanyID: coID, Name: "Bodega Central"}
	f.warehouses.items[wh2] = &entity.Warehouse{ID: wh2, CompanyID: coID, Name: "Bodega Norte"}
	f.warehouses.items[whOther] = &entity.Warehouse{ID: whOther, CompanyID: otherCoID, Name: "Bodega Ajena"}
	f.products.items[pr1] = &entity.Product{ID: pr1, CompanyID: coID, SKU: "SKU-1", Name: "Tornillo"}
	f.products.items[pr2] = &entity.Product{ID: pr2, CompanyID: coID, SKU: "SKU-2", Name: "Tuerca"}
	f.suppliers.items[sup1] = &entity.Supplier{ID: sup1, CompanyID: coID, Name: "Aceros SA"}
	f.batches.items[batch1] = &entity.Batch{ID: batch1, CompanyID: coID, ProductID: pr1, Code: "L-001"}
	return f
}

// seedStock deja una entrada de inventario lista en el almacén.
func (f *fixture) seedStock(warehouseID, productID string, stock, max int) {
	f.store.stocks[stockKeyOf(warehouseID, productID)] = &entity.WarehouseStock{
		ID:          "ws-" + warehouseID + "-" + productID,
		CompanyID:   coID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       stock,
		StockMin:    10,
		StockMax:    max,
	}
}

func (f *fixture) stockAt(warehouseID, productID string) int {
	ws, ok := f.store.stocks[stockKeyOf(warehouseID, productID)]
	if !ok {
		return -1
	}
	return ws.Stock
}

func (f *fixture) movementUC() *appinv.MovementUseCase {
	return appinv.NewMovementUseCase(f.txRunner, &fakeMovementRepo{store: f.store},
		f.warehouses, f.products, f.users, f.audit, noplog())
}

func (f *fixture) returnUC() *appinv.ReturnUseCase {
	return appinv.NewReturnUseCase(f.txRunner, &fakeReturnRepo{store: f.store},
		f.warehouses, f.products, f.suppliers, f.batches, f.users, f.audit, noplog())
}

func (f *fixture) orderUC() *appinv.PurchaseOrderUseCase {
	return appinv.NewPurchaseOrderUseCase(f.txRunner, &fakeOrderRepo{store: f.store},
		f.warehouses, f.products, f.suppliers, f.users, f.audit, noplog())
}

func (f *fixture) stockUC() *appinv.StockUseCase {
	return appinv.NewStockUseCase(f.txRunner, &fakeStockRepo{store: f.store},
		f.warehouses, f.products, f.audit)
}

// hasPrefix helper corto para aserciones sobre números generados.
func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }
