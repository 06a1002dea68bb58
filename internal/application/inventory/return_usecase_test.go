package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	appinv "github.com/arrublas1208/logitrack-api/internal/application/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
)

func createReturn(t *testing.T, uc *appinv.ReturnUseCase, in dto.CreateReturnRequest) *dto.ReturnResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), coID, userID, in)
	require.NoError(t, err)
	return resp
}

func proveedorRequest() dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		Type:        entity.ReturnTypeAProveedor,
		WarehouseID: wh1,
		SupplierID:  sup1,
		Reason:      "producto defectuoso",
		Lines:       []dto.ReturnLineRequest{{ProductID: pr1, Quantity: 5}},
	}
}

func clienteRequest() dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		Type:        entity.ReturnTypeDeCliente,
		WarehouseID: wh1,
		Reason:      "cliente se arrepintió",
		Lines:       []dto.ReturnLineRequest{{ProductID: pr1, Quantity: 3}},
	}
}

func TestReturn_CreateGeneraNumeroPorTipo(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	prov := createReturn(t, uc, proveedorRequest())
	assert.True(t, hasPrefix(prov.Number, "DP-"), "número %s debe iniciar con DP-", prov.Number)
	assert.Equal(t, entity.ReturnStatePendiente, prov.State)

	cli := createReturn(t, uc, clienteRequest())
	assert.True(t, hasPrefix(cli.Number, "DC-"), "número %s debe iniciar con DC-", cli.Number)
}

func TestReturn_CreateNumeroDuplicado(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	in := proveedorRequest()
	in.Number = "DP-123"
	createReturn(t, uc, in)

	_, err := uc.Create(context.Background(), coID, userID, in)
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeDuplicateNumber, bizErr.Code)
}

func TestReturn_CreateNumeroDuplicadoPorCarrera(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	// El chequeo previo no ve nada, pero otra creación concurrente ya tomó el
	// número: la constraint única reporta duplicado y el código debe seguir
	// siendo DUPLICATE_NUMBER, no un error genérico.
	f.store.createErr = domain.ErrDuplicate

	_, err := uc.Create(context.Background(), coID, userID, proveedorRequest())
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeDuplicateNumber, bizErr.Code)
	assert.Empty(t, f.store.returns, "no debe quedar ninguna devolución persistida")
}

func TestReturn_CreateValidaciones(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	// A_PROVEEDOR sin proveedor.
	in := proveedorRequest()
	in.SupplierID = ""
	_, err := uc.Create(context.Background(), coID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tipo desconocido.
	in = proveedorRequest()
	in.Type = "REEMBOLSO"
	_, err = uc.Create(context.Background(), coID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Lote de otro producto.
	in = proveedorRequest()
	in.Lines = []dto.ReturnLineRequest{{ProductID: pr2, BatchID: batch1, Quantity: 1}}
	_, err = uc.Create(context.Background(), coID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el lote pertenece a otro producto")

	// Bodega de otra empresa.
	in = proveedorRequest()
	in.WarehouseID = whOther
	_, err = uc.Create(context.Background(), coID, userID, in)
	var tenantErr *domain.TenantMismatchError
	assert.ErrorAs(t, err, &tenantErr)
}

func TestReturn_TransicionesDeEstado(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	uc := f.returnUC()

	ret := createReturn(t, uc, proveedorRequest())

	// Completar sin aprobar no está permitido.
	_, err := uc.Complete(context.Background(), coID, userID, ret.ID)
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)

	aprobada, err := uc.Approve(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStateAprobada, aprobada.State)

	// Aprobar dos veces tampoco.
	_, err = uc.Approve(context.Background(), coID, userID, ret.ID)
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)

	completada, err := uc.Complete(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStateCompletada, completada.State)

	// COMPLETADA es terminal: ni rechazar, ni modificar, ni borrar.
	_, err = uc.Reject(context.Background(), coID, userID, ret.ID, dto.RejectReturnRequest{Reason: "tarde"})
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)

	_, err = uc.Update(context.Background(), coID, userID, ret.ID, dto.UpdateReturnRequest{Reason: "otro"})
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeTerminalState, bizErr.Code)

	err = uc.Delete(context.Background(), coID, userID, ret.ID)
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeTerminalState, bizErr.Code)
}

func TestReturn_CompletarAProveedorDescuentaStock(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	uc := f.returnUC()

	ret := createReturn(t, uc, proveedorRequest())
	_, err := uc.Approve(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, f.stockAt(wh1, pr1))
}

func TestReturn_CompletarAProveedorSinStockSuficiente(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 2, 100)
	uc := f.returnUC()

	ret := createReturn(t, uc, proveedorRequest()) // pide 5
	_, err := uc.Approve(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), coID, userID, ret.ID)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Required)

	assert.Equal(t, 2, f.stockAt(wh1, pr1), "nada cambia si la devolución no alcanza stock")
	got, err := uc.GetByID(coID, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStateAprobada, got.State, "el estado no avanza si la tx falla")
}

func TestReturn_CompletarAProveedorSinEntradaDeStock(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	ret := createReturn(t, uc, proveedorRequest())
	_, err := uc.Approve(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), coID, userID, ret.ID)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestReturn_CompletarDeClienteAprovisionaYSuma(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	ret := createReturn(t, uc, clienteRequest()) // suma 3
	_, err := uc.Approve(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), coID, userID, ret.ID)
	require.NoError(t, err)

	ws := f.store.stocks[stockKeyOf(wh1, pr1)]
	require.NotNil(t, ws, "la entrada debe aprovisionarse al completar DE_CLIENTE")
	assert.Equal(t, 3, ws.Stock)
	assert.Equal(t, inventory.DefaultStockMax, ws.StockMax)
}

func TestReturn_RechazoAcumulaMotivos(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	ret := createReturn(t, uc, clienteRequest())

	r1, err := uc.Reject(context.Background(), coID, userID, ret.ID, dto.RejectReturnRequest{Reason: "sin evidencia"})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStateRechazada, r1.State)
	assert.Contains(t, r1.Notes, "Motivo de rechazo: sin evidencia")

	// Volver a rechazar desde RECHAZADA acumula el nuevo motivo.
	r2, err := uc.Reject(context.Background(), coID, userID, ret.ID, dto.RejectReturnRequest{Reason: "fuera de plazo"})
	require.NoError(t, err)
	assert.Contains(t, r2.Notes, "sin evidencia")
	assert.Contains(t, r2.Notes, "fuera de plazo")

	// Rechazar sin motivo no vale.
	_, err = uc.Reject(context.Background(), coID, userID, ret.ID, dto.RejectReturnRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturn_UpdateYDeleteAntesDeCompletar(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	ret := createReturn(t, uc, clienteRequest())
	upd, err := uc.Update(context.Background(), coID, userID, ret.ID, dto.UpdateReturnRequest{
		Reason: "motivo corregido",
		Notes:  "nota nueva",
	})
	require.NoError(t, err)
	assert.Equal(t, "motivo corregido", upd.Reason)

	require.NoError(t, uc.Delete(context.Background(), coID, userID, ret.ID))
	_, err = uc.GetByID(coID, ret.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturn_ConsultasYFiltros(t *testing.T) {
	f := newFixture()
	uc := f.returnUC()

	in := proveedorRequest()
	in.Number = "DP-900"
	createReturn(t, uc, in)
	createReturn(t, uc, clienteRequest())

	byNumber, err := uc.GetByNumber(coID, "DP-900")
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnTypeAProveedor, byNumber.Type)

	_, err = uc.GetByNumber(otherCoID, "DP-900")
	assert.ErrorIs(t, err, domain.ErrNotFound, "el número es por empresa")

	byType, err := uc.List(coID, entity.ReturnTypeDeCliente, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, byType.Items, 1)

	byState, err := uc.List(coID, "", entity.ReturnStatePendiente, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byState.Items, 2)
}
