package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/inventory"
)

func newEntry(stock, max int) *entity.WarehouseStock {
	return &entity.WarehouseStock{
		ID:          "ws-1",
		CompanyID:   "co-1",
		WarehouseID: "wh-1",
		ProductID:   "pr-1",
		Stock:       stock,
		StockMin:    10,
		StockMax:    max,
	}
}

func TestAdjust_SumaYResta(t *testing.T) {
	now := time.Now()
	ws := newEntry(50, 100)

	before, err := inventory.Adjust(ws, 30, now)
	require.NoError(t, err)
	assert.Equal(t, 50, before.Stock, "el snapshot debe conservar el stock anterior")
	assert.Equal(t, 80, ws.Stock)
	assert.Equal(t, now, ws.UpdatedAt)

	_, err = inventory.Adjust(ws, -80, now)
	require.NoError(t, err)
	assert.Equal(t, 0, ws.Stock, "llegar exactamente a cero es válido")
}

func TestAdjust_NoPermiteStockNegativo(t *testing.T) {
	ws := newEntry(5, 100)

	_, err := inventory.Adjust(ws, -6, time.Now())
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsNegative, boundsErr.Kind)
	assert.Equal(t, 5, ws.Stock, "la entrada debe quedar intacta tras la violación")
}

func TestAdjust_NoPermiteSuperarMaximo(t *testing.T) {
	ws := newEntry(95, 100)

	_, err := inventory.Adjust(ws, 6, time.Now())
	var boundsErr *domain.StockBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, domain.StockBoundsAboveMax, boundsErr.Kind)
	assert.Equal(t, 95, ws.Stock)

	// Llegar exactamente al máximo sí es válido.
	_, err = inventory.Adjust(ws, 5, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, ws.Stock)
}

func TestNewWarehouseStock_ValoresPorDefecto(t *testing.T) {
	now := time.Now()
	ws := inventory.NewWarehouseStock("co-1", "wh-1", "pr-1", now)

	assert.Equal(t, 0, ws.Stock)
	assert.Equal(t, inventory.DefaultStockMin, ws.StockMin)
	assert.Equal(t, inventory.DefaultStockMax, ws.StockMax)
	assert.Equal(t, now, ws.UpdatedAt)
}

func TestValidateBounds(t *testing.T) {
	assert.NoError(t, inventory.ValidateBounds(0, 0))
	assert.NoError(t, inventory.ValidateBounds(10, 1000))
	assert.True(t, errors.Is(inventory.ValidateBounds(-1, 10), domain.ErrInvalidInput))
	assert.True(t, errors.Is(inventory.ValidateBounds(10, -1), domain.ErrInvalidInput))
	assert.True(t, errors.Is(inventory.ValidateBounds(20, 10), domain.ErrInvalidInput),
		"min mayor que max debe rechazarse")
}
