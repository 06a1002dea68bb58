package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
)

func TestMovement_EntradaAprovisionaYSuma(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	resp, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeEntrada,
		DestinationID: wh1,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 25}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeEntrada, resp.Type)
	assert.Equal(t, "Bodega Central", resp.Destination)
	assert.Equal(t, "Tornillo", resp.Lines[0].Product)

	// La entrada no existía: se aprovisiona con límites por defecto.
	ws := f.store.stocks[stockKeyOf(wh1, pr1)]
	require.NotNil(t, ws)
	assert.Equal(t, 25, ws.Stock)
	assert.Equal(t, inventory.DefaultStockMin, ws.StockMin)
	assert.Equal(t, inventory.DefaultStockMax, ws.StockMax)

	assert.Equal(t, []string{entity.AuditOpInsert}, f.audit.ops("Movement"))
	assert.Equal(t, []string{entity.AuditOpUpdate}, f.audit.ops("WarehouseStock"))
}

func TestMovement_EntradaSobreMaximoNoPersisteNada(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 95, 100)
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeEntrada,
		DestinationID: wh1,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 10}},
	})
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsAboveMax, boundsErr.Kind)

	assert.Equal(t, 95, f.stockAt(wh1, pr1), "el stock no debe cambiar tras el rollback")
	assert.Empty(t, f.store.movements, "el movimiento no debe quedar persistido")
	assert.Empty(t, f.audit.records, "una operación fallida no se audita")
}

func TestMovement_SalidaDescuentaStock(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:     entity.MovementTypeSalida,
		OriginID: wh1,
		Lines:    []dto.MovementLineRequest{{ProductID: pr1, Quantity: 20}},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, f.stockAt(wh1, pr1))
}

func TestMovement_SalidaInsuficiente(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 5, 100)
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:     entity.MovementTypeSalida,
		OriginID: wh1,
		Lines:    []dto.MovementLineRequest{{ProductID: pr1, Quantity: 8}},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Tornillo", stockErr.ProductName)
	assert.Equal(t, "Bodega Central", stockErr.WarehouseName)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 8, stockErr.Required)

	assert.Equal(t, 5, f.stockAt(wh1, pr1))
	assert.Empty(t, f.store.movements)
}

func TestMovement_SalidaSinEntradaDeStock(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:     entity.MovementTypeSalida,
		OriginID: wh1,
		Lines:    []dto.MovementLineRequest{{ProductID: pr1, Quantity: 1}},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available, "sin entrada de inventario el disponible es cero")
}

func TestMovement_TransferenciaConservaElTotal(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 40, 100)
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeTransferencia,
		OriginID:      wh1,
		DestinationID: wh2,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 15}},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, f.stockAt(wh1, pr1))
	assert.Equal(t, 15, f.stockAt(wh2, pr1), "el destino se aprovisiona y recibe la cantidad")
}

func TestMovement_TransferenciaMismaBodega(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeTransferencia,
		OriginID:      wh1,
		DestinationID: wh1,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 1}},
	})
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeSameWarehouse, bizErr.Code)
}

func TestMovement_TransferenciaDestinoLlenoRevierteOrigen(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	f.seedStock(wh2, pr1, 95, 100)
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeTransferencia,
		OriginID:      wh1,
		DestinationID: wh2,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 10}},
	})
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)

	// El descuento en origen ya se había aplicado dentro de la tx: el
	// rollback debe dejar ambas bodegas como estaban.
	assert.Equal(t, 50, f.stockAt(wh1, pr1))
	assert.Equal(t, 95, f.stockAt(wh2, pr1))
	assert.Empty(t, f.store.movements)
}

func TestMovement_ProductoDuplicadoEnLineas(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeEntrada,
		DestinationID: wh1,
		Lines: []dto.MovementLineRequest{
			{ProductID: pr1, Quantity: 5},
			{ProductID: pr1, Quantity: 3},
		},
	})
	var bizErr *domain.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, domain.CodeDuplicateProduct, bizErr.Code)
}

func TestMovement_BodegaDeOtraEmpresa(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeEntrada,
		DestinationID: whOther,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 1}},
	})
	var tenantErr *domain.TenantMismatchError
	require.ErrorAs(t, err, &tenantErr)
}

func TestMovement_ValidacionDeBodegasPorTipo(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()
	line := []dto.MovementLineRequest{{ProductID: pr1, Quantity: 1}}

	cases := []dto.CreateMovementRequest{
		{Type: entity.MovementTypeEntrada, OriginID: wh1, DestinationID: wh2, Lines: line},
		{Type: entity.MovementTypeSalida, OriginID: wh1, DestinationID: wh2, Lines: line},
		{Type: entity.MovementTypeTransferencia, OriginID: wh1, Lines: line},
		{Type: "OTRO", DestinationID: wh1, Lines: line},
		{Type: entity.MovementTypeEntrada, DestinationID: wh1},
		{Type: entity.MovementTypeEntrada, DestinationID: wh1, Lines: []dto.MovementLineRequest{{ProductID: pr1, Quantity: 0}}},
	}
	for _, in := range cases {
		_, err := uc.Create(context.Background(), coID, userID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %s origin=%q dest=%q", in.Type, in.OriginID, in.DestinationID)
	}
}

func TestMovement_DeleteNoRevierteInventario(t *testing.T) {
	f := newFixture()
	uc := f.movementUC()

	resp, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
		Type:          entity.MovementTypeEntrada,
		DestinationID: wh1,
		Lines:         []dto.MovementLineRequest{{ProductID: pr1, Quantity: 30}},
	})
	require.NoError(t, err)
	require.Equal(t, 30, f.stockAt(wh1, pr1))

	require.NoError(t, uc.Delete(context.Background(), coID, userID, resp.ID))
	assert.Empty(t, f.store.movements)
	assert.Equal(t, 30, f.stockAt(wh1, pr1), "borrar el movimiento no revierte su efecto")
	assert.Equal(t, []string{entity.AuditOpInsert, entity.AuditOpDelete}, f.audit.ops("Movement"))
}

func TestMovement_ListYLatest(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 100, 1000)
	uc := f.movementUC()

	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), coID, userID, dto.CreateMovementRequest{
			Type:     entity.MovementTypeSalida,
			OriginID: wh1,
			Lines:    []dto.MovementLineRequest{{ProductID: pr1, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	list, err := uc.List(coID, entity.MovementTypeSalida, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)

	latest, err := uc.Latest(coID)
	require.NoError(t, err)
	assert.Len(t, latest.Items, 3)

	byWh, err := uc.List(coID, "", wh1, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byWh.Items, 3)
}
