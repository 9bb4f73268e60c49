package service

import (
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// giveCashierStock distributes qty of product to the cashier
func giveCashierStock(t *testing.T, env *testEnv, product *model.Product, cashier *model.User, qty int) {
	t.Helper()
	_, err := env.movement.Distribute(&DistributeRequest{
		ProductID: product.ID, CashierID: cashier.ID, Quantity: qty,
	}, testActor)
	require.NoError(t, err)
}

func TestCompleteSaleCash(t *testing.T) {
	env := newTestEnv(t)
	seedTaxType(t, env.db, "VAT", 11, true)
	product := seedProduct(t, env.db, "SKU-001", 50000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 5)

	result, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  120000,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), result.Subtotal)
	assert.Equal(t, int64(11000), result.TotalTax)
	assert.Equal(t, int64(111000), result.Total)
	assert.Equal(t, int64(9000), result.ChangeGiven)

	// Only the cashier's stock is touched, never the warehouse
	assert.Equal(t, 3, cashierQty(t, env.db, product.ID, cashier.ID))
	assert.Equal(t, 5, warehouseStock(t, env.db, product.ID))

	sale, err := env.sales.GetSaleByID(result.SaleID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(50000), sale.Items[0].UnitPrice)
	require.Len(t, sale.Taxes, 1)
	assert.Equal(t, int64(11000), sale.Taxes[0].Amount)
}

func TestCompleteSaleInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 50000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 3)

	_, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 4}},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  1000000,
	}, testActor)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The whole checkout rolled back
	assert.Equal(t, 3, cashierQty(t, env.db, product.ID, cashier.ID))
	var count int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCompleteSaleMultiLineRollsBackAtomically(t *testing.T) {
	env := newTestEnv(t)
	p1 := seedProduct(t, env.db, "SKU-001", 10000, 10)
	p2 := seedProduct(t, env.db, "SKU-002", 20000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, p1, cashier, 5)
	giveCashierStock(t, env, p2, cashier, 1)

	_, err := env.sales.CompleteSale(&CheckoutRequest{
		Items: []CartItemRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 3}, // only 1 held
		},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  1000000,
	}, testActor)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The first line's decrement must not survive the failed second line
	assert.Equal(t, 5, cashierQty(t, env.db, p1.ID, cashier.ID))
	assert.Equal(t, 1, cashierQty(t, env.db, p2.ID, cashier.ID))
}

func TestCompleteSaleInsufficientPayment(t *testing.T) {
	env := newTestEnv(t)
	seedTaxType(t, env.db, "VAT", 11, true)
	product := seedProduct(t, env.db, "SKU-001", 50000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 5)

	_, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  111000 - 1,
	}, testActor)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// Stock decrement rolled back with the rejected payment
	assert.Equal(t, 5, cashierQty(t, env.db, product.ID, cashier.ID))
}

func TestCompleteSaleRejectsQRISMethod(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 50000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 5)

	_, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: model.PaymentQRIS,
		CashierID:     cashier.ID,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteSaleDefaultsToActorStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 4)

	actor := Actor{ID: cashier.ID, Name: cashier.FullName}
	result, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: model.PaymentCard,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 3, cashierQty(t, env.db, product.ID, cashier.ID))
	sale, err := env.sales.GetSaleByID(result.SaleID)
	require.NoError(t, err)
	assert.Equal(t, cashier.ID, sale.CashierID)
}

func TestSaleSnapshotsPriceAtCheckout(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 50000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 5)

	result, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  50000,
	}, testActor)
	require.NoError(t, err)

	// Catalog price changes must not rewrite completed sales
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", product.ID).Update("price", 99999).Error)

	sale, err := env.sales.GetSaleByID(result.SaleID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), sale.Items[0].UnitPrice)
	assert.Equal(t, int64(50000), sale.Subtotal)
}

func TestCancelSaleRestocksCashier(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 10)
	cashier := seedCashier(t, env.db, "cashier1@example.com")
	giveCashierStock(t, env, product, cashier, 5)

	result, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 3}},
		PaymentMethod: model.PaymentCash,
		CashierID:     cashier.ID,
		CashReceived:  30000,
	}, testActor)
	require.NoError(t, err)
	require.Equal(t, 2, cashierQty(t, env.db, product.ID, cashier.ID))

	sale, err := env.sales.CancelSale(result.SaleID, testActor)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, sale.Status)
	assert.Equal(t, 5, cashierQty(t, env.db, product.ID, cashier.ID))

	// Cancelling twice must not restock twice
	_, err = env.sales.CancelSale(result.SaleID, testActor)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 5, cashierQty(t, env.db, product.ID, cashier.ID))
}

func TestCancelSaleNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sales.CancelSale("b6f7c2aa-9c1d-4e6f-8a52-1f2d3c4b5a69", testActor)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGetSalesFilters(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "SKU-001", 10000, 20)
	c1 := seedCashier(t, env.db, "c1@example.com")
	c2 := seedCashier(t, env.db, "c2@example.com")
	giveCashierStock(t, env, product, c1, 5)
	giveCashierStock(t, env, product, c2, 5)

	for _, id := range []string{c1.ID, c1.ID, c2.ID} {
		_, err := env.sales.CompleteSale(&CheckoutRequest{
			Items:         []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: model.PaymentCash,
			CashierID:     id,
			CashReceived:  10000,
		}, testActor)
		require.NoError(t, err)
	}

	all, err := env.sales.GetSales(repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := env.sales.GetSales(repository.SaleFilter{CashierID: c1.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	completed, err := env.sales.GetSales(repository.SaleFilter{Status: model.SaleCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 3)
}

func TestCompleteSaleEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sales.CompleteSale(&CheckoutRequest{
		Items:         []CartItemRequest{},
		PaymentMethod: model.PaymentCash,
	}, testActor)
	require.Error(t, err)
}

func TestPreviewTotals(t *testing.T) {
	env := newTestEnv(t)
	seedTaxType(t, env.db, "VAT", 11, true)
	seedTaxType(t, env.db, "SVC", 5, false)

	breakdown, err := env.sales.PreviewTotals(100000)
	require.NoError(t, err)

	require.Len(t, breakdown.Taxes, 1)
	assert.Equal(t, int64(11000), breakdown.TotalTax)
	assert.Equal(t, int64(111000), breakdown.Total)
}
