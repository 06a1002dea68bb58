package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
)

func TestStock_CreateYDuplicado(t *testing.T) {
	f := newFixture()
	uc := f.stockUC()
	ctx := context.Background()

	resp, err := uc.Create(ctx, coID, userID, dto.CreateStockRequest{
		WarehouseID: wh1, ProductID: pr1, Stock: 20, StockMin: 5, StockMax: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Stock)
	assert.Equal(t, 5, resp.StockMin)

	_, err = uc.Create(ctx, coID, userID, dto.CreateStockRequest{
		WarehouseID: wh1, ProductID: pr1, Stock: 1, StockMax: 10,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "una clave (bodega, producto) sólo admite una entrada")
}

func TestStock_CreateValidaciones(t *testing.T) {
	f := newFixture()
	uc := f.stockUC()
	ctx := context.Background()

	cases := []dto.CreateStockRequest{
		{WarehouseID: wh1, ProductID: pr1, Stock: -1, StockMax: 10},
		{WarehouseID: wh1, ProductID: pr1, Stock: 5, StockMin: 20, StockMax: 10},
		{WarehouseID: wh1, ProductID: pr1, Stock: 50, StockMin: 0, StockMax: 10},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, coID, userID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock=%d min=%d max=%d", in.Stock, in.StockMin, in.StockMax)
	}
}

func TestStock_AdjustAprovisionaYRespetaLimites(t *testing.T) {
	f := newFixture()
	uc := f.stockUC()
	ctx := context.Background()

	// Sin entrada previa: se aprovisiona con límites por defecto.
	resp, err := uc.Adjust(ctx, coID, userID, dto.AdjustStockRequest{
		WarehouseID: wh1, ProductID: pr1, Delta: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Stock)
	assert.Equal(t, inventory.DefaultStockMax, resp.StockMax)

	// Delta que dejaría stock negativo.
	_, err = uc.Adjust(ctx, coID, userID, dto.AdjustStockRequest{
		WarehouseID: wh1, ProductID: pr1, Delta: -41,
	})
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsNegative, boundsErr.Kind)
	assert.Equal(t, 40, f.stockAt(wh1, pr1))

	// Delta cero no es un ajuste.
	_, err = uc.Adjust(ctx, coID, userID, dto.AdjustStockRequest{
		WarehouseID: wh1, ProductID: pr1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStock_UpdateBounds(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	uc := f.stockUC()
	ctx := context.Background()

	resp, err := uc.UpdateBounds(ctx, coID, userID, wh1, pr1, dto.UpdateStockBoundsRequest{
		StockMin: 20, StockMax: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.StockMin)
	assert.Equal(t, 500, resp.StockMax)
	assert.Equal(t, 50, resp.Stock, "cambiar límites no toca el stock actual")

	_, err = uc.UpdateBounds(ctx, coID, userID, wh1, pr2, dto.UpdateStockBoundsRequest{StockMax: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.UpdateBounds(ctx, coID, userID, wh1, pr1, dto.UpdateStockBoundsRequest{StockMin: 9, StockMax: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStock_UpdateBoundsNoPuedeDejarMaximoBajoElStock(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 50, 100)
	uc := f.stockUC()

	_, err := uc.UpdateBounds(context.Background(), coID, userID, wh1, pr1, dto.UpdateStockBoundsRequest{
		StockMin: 5, StockMax: 30,
	})
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsAboveMax, boundsErr.Kind)
	assert.Equal(t, 50, boundsErr.Current)
	assert.Equal(t, 30, boundsErr.StockMax)

	// La entrada queda como estaba.
	got, err := uc.Get(coID, wh1, pr1)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Stock)
	assert.Equal(t, 100, got.StockMax)

	// Máximo igual al stock presente sí es legal.
	resp, err := uc.UpdateBounds(context.Background(), coID, userID, wh1, pr1, dto.UpdateStockBoundsRequest{
		StockMin: 5, StockMax: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.StockMax)
}

func TestStock_ConsultasYTotales(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 3, 100)  // por debajo del mínimo (10)
	f.seedStock(wh2, pr1, 40, 100)
	f.seedStock(wh1, pr2, 15, 100)
	uc := f.stockUC()

	got, err := uc.Get(coID, wh1, pr1)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	all, err := uc.List(coID, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	byWh, err := uc.List(coID, wh1, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byWh.Items, 2)

	low, err := uc.ListLow(coID)
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, pr1, low.Items[0].ProductID)

	total, err := uc.TotalByProduct(coID, pr1)
	require.NoError(t, err)
	assert.Equal(t, 43, total, "suma en todas las bodegas de la empresa")
}

func TestStock_DeleteAdministrativo(t *testing.T) {
	f := newFixture()
	f.seedStock(wh1, pr1, 5, 100)
	uc := f.stockUC()
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, coID, userID, wh1, pr1))
	_, err := uc.Get(coID, wh1, pr1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctx, coID, userID, wh1, pr1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStock_TenantYRollback(t *testing.T) {
	f := newFixture()
	uc := f.stockUC()
	ctx := context.Background()

	_, err := uc.Adjust(ctx, coID, userID, dto.AdjustStockRequest{
		WarehouseID: whOther, ProductID: pr1, Delta: 1,
	})
	var tenantErr *domain.TenantMismatchError
	require.ErrorAs(t, err, &tenantErr)

	// Un fallo de persistencia dentro de la tx no deja nada a medias.
	f.store.failUpsertAt = 1
	_, err = uc.Adjust(ctx, coID, userID, dto.AdjustStockRequest{
		WarehouseID: wh1, ProductID: pr1, Delta: 10,
	})
	require.Error(t, err)
	assert.Equal(t, -1, f.stockAt(wh1, pr1), "el rollback descarta el aprovisionamiento")
}
