package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	appinv "github.com/arrublas1208/logitrack-api/internal/application/inventory"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
)

func orderRequest() dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		SupplierID:  sup1,
		WarehouseID: wh1,
		Lines: []dto.PurchaseOrderLineRequest{
			{ProductID: pr1, Quantity: 10, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductID: pr2, Quantity: 3, UnitPrice: decimal.RequireFromString("0.99")},
		},
	}
}

func createOrder(t *testing.T, uc *appinv.PurchaseOrderUseCase, in dto.CreatePurchaseOrderRequest) *dto.PurchaseOrderResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), coID, userID, in)
	require.NoError(t, err)
	return resp
}

func TestOrder_CreateCalculaTotalesDecimales(t *testing.T) {
	f := newFixture()
	uc := f.orderUC()

	resp := createOrder(t, uc, orderRequest())
	assert.Equal(t, entity.OrderStatePendiente, resp.State)
	assert.True(t, hasPrefix(resp.Number, "OC-"), "número %s debe iniciar con OC-", resp.Number)

	// 10 * 12.50 + 3 * 0.99 = 125.00 + 2.97 = 127.97, sin errores de flotante.
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("127.97")),
		"total %s debe ser 127.97", resp.Total)
	assert.True(t, resp.Lines[0].Subtotal.Equal(decimal.RequireFromString("125.00")))
	assert.Equal(t, 0, resp.Lines[0].ReceivedQuantity)
}

func TestOrder_CreateValidaciones(t *testing.T) {
	f := newFixture()
	uc := f.orderUC()

	in := orderRequest()
	in.SupplierID = ""
	_, err := uc.Create(context.Background(), coID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = orderRequest()
	in.Lines[0].UnitPrice = decimal.RequireFromString("-1")
	_, err = uc.Create(context.Background(), coID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	in = orderRequest()
	in.Number = "OC-500"
	createOrder(t, uc, in)
	_, err = uc.Create(context.Background(), coID, userID, in)
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeDuplicateNumber, bizErr.Code)
}

func TestOrder_CreateNumeroDuplicadoPorCarrera(t *testing.T) {
	f := newFixture()
	uc := f.orderUC()

	// Creación concurrente con el mismo número: la constraint única dispara
	// después del chequeo previo y el código sigue siendo DUPLICATE_NUMBER.
	f.store.createErr = domain.ErrDuplicate

	_, err := uc.Create(context.Background(), coID, userID, orderRequest())
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeDuplicateNumber, bizErr.Code)
	assert.Empty(t, f.store.orders, "no debe quedar ninguna orden persistida")
}

func TestOrder_TransicionesManualesDeEstado(t *testing.T) {
	f := newFixture()
	uc := f.orderUC()
	ctx := context.Background()

	order := createOrder(t, uc, orderRequest())

	// ENVIADA directo desde PENDIENTE no se permite.
	_, err := uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateEnviada})
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)

	// RECIBIDA no es alcanzable por transición manual.
	_, err = uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateRecibida})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	aprobada, err := uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateAprobada})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateAprobada, aprobada.State)

	enviada, err := uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateEnviada})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateEnviada, enviada.State)

	cancelada, err := uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateCancelada})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateCancelada, cancelada.State)

	// CANCELADA es terminal.
	_, err = uc.ChangeState(ctx, coID, userID, order.ID, dto.ChangeOrderStateRequest{State: entity.OrderStateAprobada})
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeTerminalState, bizErr.Code)

	_, err = uc.Receive(ctx, coID, userID, order.ID)
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)
}

func TestOrder_ReceiveSumaStockYMarcaRecibida(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 5, 1000)
	uc := f.orderUC()
	ctx := context.Background()

	order := createOrder(t, uc, orderRequest())

	recibida, err := uc.Receive(ctx, coID, userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateRecibida, recibida.State)
	require.NotNil(t, recibida.ReceivedAt)
	assert.Equal(t, 10, recibida.Lines[0].ReceivedQuantity)
	assert.Equal(t, 3, recibida.Lines[1].ReceivedQuantity)

	assert.Equal(t, 15, f.stockAt(wh1, pr1), "entrada existente: 5 + 10")
	assert.Equal(t, 3, f.stockAt(wh1, pr2), "entrada nueva aprovisionada con la cantidad recibida")

	// Ni recibir dos veces ni borrar una recibida.
	_, err = uc.Receive(ctx, coID, userID, order.ID)
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeInvalidTransition, bizErr.Code)

	err = uc.Delete(ctx, coID, userID, order.ID)
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeTerminalState, bizErr.Code)
}

func TestOrder_ReceiveQueExcedeMaximoNoDejaNada(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 995, 1000)
	uc := f.orderUC()

	order := createOrder(t, uc, orderRequest()) // pide 10 de pr1

	_, err := uc.Receive(context.Background(), coID, userID, order.ID)
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsAboveMax, boundsErr.Kind)

	assert.Equal(t, 995, f.stockAt(wh1, pr1))
	assert.Equal(t, -1, f.stockAt(wh1, pr2), "ninguna línea debe quedar aplicada")

	got, err := uc.GetByID(coID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatePendiente, got.State)
	assert.Equal(t, 0, got.Lines[0].ReceivedQuantity)
}

func TestOrder_DeleteYConsultas(t *testing.T) {
	f := newFixture()
	uc := f.orderUC()
	ctx := context.Background()

	in := orderRequest()
	in.Number = "OC-700"
	order := createOrder(t, uc, in)

	byNumber, err := uc.GetByNumber(coID, "OC-700")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	byState, err := uc.List(coID, entity.OrderStatePendiente, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byState.Items, 1)

	require.NoError(t, uc.Delete(ctx, coID, userID, order.ID))
	_, err = uc.GetByID(coID, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
