package service

import (
	"testing"

	"go-pos-ws/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeMovesStockToCashier(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	result, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		Quantity:  4,
	}, testActor)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 6, result.NewStock)

	assert.Equal(t, 6, warehouseStock(t, env.db, product.ID))
	assert.Equal(t, 4, cashierQty(t, env.db, product.ID, cashier.ID))

	distributions, err := env.movement.GetDistributions(product.ID, cashier.ID)
	require.NoError(t, err)
	require.Len(t, distributions, 1)
	assert.Equal(t, 4, distributions[0].Quantity)
}

func TestDistributeConservesTotalStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 20)
	c1 := seedCashier(t, env.db, "c1@example.com")
	c2 := seedCashier(t, env.db, "c2@example.com")

	for _, tc := range []struct {
		cashierID string
		qty       int
	}{
		{c1.ID, 5}, {c2.ID, 7}, {c1.ID, 3},
	} {
		_, err := env.movement.Distribute(&DistributeRequest{
			ProductID: product.ID, CashierID: tc.cashierID, Quantity: tc.qty,
		}, testActor)
		require.NoError(t, err)
	}

	total := warehouseStock(t, env.db, product.ID) +
		cashierQty(t, env.db, product.ID, c1.ID) +
		cashierQty(t, env.db, product.ID, c2.ID)
	assert.Equal(t, 20, total, "distribution must move stock, never create or destroy it")
}

func TestDistributeInsufficientWarehouseStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 3)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		Quantity:  5,
	}, testActor)
	require.ErrorIs(t, err, ErrInsufficientWarehouseStock)

	// Nothing moved
	assert.Equal(t, 3, warehouseStock(t, env.db, product.ID))
	assert.Equal(t, 0, cashierQty(t, env.db, product.ID, cashier.ID))

	distributions, err := env.movement.GetDistributions(product.ID, "")
	require.NoError(t, err)
	assert.Empty(t, distributions)
}

func TestDistributeRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: 0,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: -2,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: "b6f7c2aa-9c1d-4e6f-8a52-1f2d3c4b5a69", Quantity: 1,
	}, testActor)
	assert.ErrorIs(t, err, ErrCashierNotFound)

	// A malformed ID fails struct validation and must match the sentinel so
	// handlers answer 400, not 500
	_, err = env.movement.Distribute(&DistributeRequest{
		ProductID: "not-a-uuid", CashierID: cashier.ID, Quantity: 1,
	}, testActor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDistributeUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: "b6f7c2aa-9c1d-4e6f-8a52-1f2d3c4b5a69",
		CashierID: cashier.ID,
		Quantity:  1,
	}, testActor)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReturnMovesStockBackToWarehouse(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: 4,
	}, testActor)
	require.NoError(t, err)

	result, err := env.movement.Return(&ReturnRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		Quantity:  3,
		Reason:    model.ReturnLeftover,
	}, testActor)
	require.NoError(t, err)

	// The reported stocks are the cashier's
	assert.Equal(t, 4, result.PreviousStock)
	assert.Equal(t, 1, result.NewStock)

	assert.Equal(t, 9, warehouseStock(t, env.db, product.ID))
	assert.Equal(t, 1, cashierQty(t, env.db, product.ID, cashier.ID))

	returns, err := env.movement.GetReturns(product.ID, cashier.ID)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, 3, returns[0].Quantity)
	assert.Equal(t, model.ReturnLeftover, returns[0].Reason)
}

func TestReturnAllMovesExactlyCurrentStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: 7,
	}, testActor)
	require.NoError(t, err)

	result, err := env.movement.Return(&ReturnRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		ReturnAll: true,
		Reason:    model.ReturnExpired,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, 7, result.PreviousStock)
	assert.Equal(t, 0, result.NewStock)
	assert.Equal(t, 10, warehouseStock(t, env.db, product.ID))
	assert.Equal(t, 0, cashierQty(t, env.db, product.ID, cashier.ID))
}

func TestReturnAllWithNothingHeld(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Return(&ReturnRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		ReturnAll: true,
		Reason:    model.ReturnLeftover,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestReturnInsufficientCashierStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: 2,
	}, testActor)
	require.NoError(t, err)

	_, err = env.movement.Return(&ReturnRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		Quantity:  5,
		Reason:    model.ReturnDefective,
	}, testActor)
	require.ErrorIs(t, err, ErrInsufficientCashierStock)

	// The failed return rolled back entirely
	assert.Equal(t, 8, warehouseStock(t, env.db, product.ID))
	assert.Equal(t, 2, cashierQty(t, env.db, product.ID, cashier.ID))
}

func TestReturnUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Return(&ReturnRequest{
		ProductID: "b6f7c2aa-9c1d-4e6f-8a52-1f2d3c4b5a69",
		CashierID: cashier.ID,
		Quantity:  1,
		Reason:    model.ReturnLeftover,
	}, testActor)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = env.movement.Return(&ReturnRequest{
		ProductID: "b6f7c2aa-9c1d-4e6f-8a52-1f2d3c4b5a69",
		CashierID: cashier.ID,
		ReturnAll: true,
		Reason:    model.ReturnLeftover,
	}, testActor)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReturnRejectsUnknownReason(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")

	_, err := env.movement.Return(&ReturnRequest{
		ProductID: product.ID,
		CashierID: cashier.ID,
		Quantity:  1,
		Reason:    model.ReturnReason("LOST"),
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestAdjustWarehouseStockGuardsNegative(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 5)

	result, err := env.inventory.AdjustWarehouseStock(product.ID, -3, "damaged in storage", testActor)
	require.NoError(t, err)
	assert.Equal(t, 5, result.PreviousStock)
	assert.Equal(t, 2, result.NewStock)

	_, err = env.inventory.AdjustWarehouseStock(product.ID, -10, "oops", testActor)
	require.ErrorIs(t, err, ErrInsufficientWarehouseStock)
	assert.Equal(t, 2, warehouseStock(t, env.db, product.ID))

	var adjustments []model.StockAdjustment
	require.NoError(t, env.db.Find(&adjustments).Error)
	require.Len(t, adjustments, 1)
	assert.Equal(t, -3, adjustments[0].Delta)
	assert.Equal(t, 5, adjustments[0].PreviousStock)
	assert.Equal(t, 2, adjustments[0].NewStock)
}
