package service

import (
	"sync"
	"testing"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSalesOrder(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 10)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 2, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")

	require.NoError(t, err)
	assert.Equal(t, model.SalesPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "TS-RED-M", order.Items[0].Variation.SKUCode)

	// Creation never touches stock
	assert.Equal(t, 10, env.stockLevel(t, variation.ID))
}

func TestCreateSalesOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 10)

	t.Run("malformed email", func(t *testing.T) {
		_, err := env.sales.Create(&CreateSalesOrderRequest{
			CustomerEmail: "not-an-email",
			ItemsData: []SalesOrderItemRequest{
				{VariationID: variation.ID, QuantitySold: 1, SalePricePerUnit: dec("5.00")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := env.sales.Create(&CreateSalesOrderRequest{
			CustomerEmail: "buyer@example.com",
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := env.sales.Create(&CreateSalesOrderRequest{
			CustomerEmail: "buyer@example.com",
			ItemsData: []SalesOrderItemRequest{
				{VariationID: variation.ID, QuantitySold: 0, SalePricePerUnit: dec("5.00")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("unknown variation", func(t *testing.T) {
		_, err := env.sales.Create(&CreateSalesOrderRequest{
			CustomerEmail: "buyer@example.com",
			ItemsData: []SalesOrderItemRequest{
				{VariationID: uuid.New(), QuantitySold: 1, SalePricePerUnit: dec("5.00")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestFulfillRejectsInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 5)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 6, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)

	before, err := env.sales.Get(order.ID)
	require.NoError(t, err)

	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.SKUs, "TS-RED-M")
	assert.Contains(t, appErr.Message, "TS-RED-M")

	// Nothing moved
	assert.Equal(t, 5, env.stockLevel(t, variation.ID))

	// Re-fetching after the rejected transition yields identical data
	after, err := env.sales.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, model.SalesPending, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	require.Len(t, after.Items, 1)
	assert.Equal(t, before.Items[0].QuantitySold, after.Items[0].QuantitySold)

	// No movement row survived the rollback
	movements, err := env.movementRepo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestFulfillExactStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 5)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 5, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)

	fulfilled, err := env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.SalesFulfilled, fulfilled.Status)
	assert.Equal(t, 0, env.stockLevel(t, variation.ID))

	movements, err := env.movementRepo.FindAll()
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementOut, movements[0].Type)
	assert.Equal(t, 5, movements[0].Quantity)
}

func TestFulfillAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	plenty := env.createVariation(t, product.ID, "TS-RED-M", 100)
	short := env.createVariation(t, product.ID, "TS-BLUE-S", 1)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: plenty.ID, QuantitySold: 10, SalePricePerUnit: dec("19.99")},
			{VariationID: short.ID, QuantitySold: 3, SalePricePerUnit: dec("24.99")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"TS-BLUE-S"}, appErr.SKUs)

	// Zero items deducted, including the one that had plenty
	assert.Equal(t, 100, env.stockLevel(t, plenty.ID))
	assert.Equal(t, 1, env.stockLevel(t, short.ID))
}

func TestFulfilledIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 10)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 2, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.NoError(t, err)
	assert.Equal(t, 8, env.stockLevel(t, variation.ID))

	// A second fulfillment must not deduct again
	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	assert.Equal(t, 8, env.stockLevel(t, variation.ID))

	// Regressing to Pending is rejected too
	_, err = env.sales.Transition(order.ID, model.SalesPending, "tester")
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestStaleFulfillmentClaimRejected(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 10)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 2, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	require.NoError(t, err)
	assert.Equal(t, 8, env.stockLevel(t, variation.ID))

	// Replay the write a rival that read Pending before the commit would
	// issue. The status guard must reject it, so its stock loop never runs.
	repo := repository.NewSalesOrderRepo(env.db)
	applied, err := repo.UpdateStatus(env.db, order.ID, model.SalesPending, model.SalesFulfilled, "rival")
	require.NoError(t, err)
	assert.False(t, applied, "a stale transition must not apply")

	refreshed, err := env.sales.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SalesFulfilled, refreshed.Status)
	assert.Equal(t, 8, env.stockLevel(t, variation.ID))
}

func TestFulfillRejectsDeletedVariation(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	kept := env.createVariation(t, product.ID, "TS-RED-M", 100)
	doomed := env.createVariation(t, product.ID, "TS-BLUE-S", 50)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: kept.ID, QuantitySold: 10, SalePricePerUnit: dec("19.99")},
			{VariationID: doomed.ID, QuantitySold: 3, SalePricePerUnit: dec("24.99")},
		},
	}, "tester")
	require.NoError(t, err)

	require.NoError(t, env.variationRepo.Delete(doomed.ID))

	// A vanished variation is a lookup failure, not a shortage
	_, err = env.sales.Transition(order.ID, model.SalesFulfilled, "tester")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.Equal(t, 100, env.stockLevel(t, kept.ID))
	refreshed, err := env.sales.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SalesPending, refreshed.Status)
}

func TestConcurrentFulfillmentSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 5)

	makeOrder := func() uuid.UUID {
		order, err := env.sales.Create(&CreateSalesOrderRequest{
			CustomerEmail: "buyer@example.com",
			ItemsData: []SalesOrderItemRequest{
				{VariationID: variation.ID, QuantitySold: 3, SalePricePerUnit: dec("19.99")},
			},
		}, "tester")
		require.NoError(t, err)
		return order.ID
	}
	first := makeOrder()
	second := makeOrder()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, id := range []uuid.UUID{first, second} {
		wg.Add(1)
		go func(orderID uuid.UUID) {
			defer wg.Done()
			_, err := env.sales.Transition(orderID, model.SalesFulfilled, "tester")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var successes, shortfalls int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))
			shortfalls++
		}
	}

	assert.Equal(t, 1, successes, "exactly one rival order may win")
	assert.Equal(t, 1, shortfalls)
	assert.Equal(t, 2, env.stockLevel(t, variation.ID))
}

func TestDeleteSalesOrder(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 10)

	order, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 2, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)

	require.NoError(t, env.sales.Delete(order.ID))
	_, err = env.sales.Get(order.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// Fulfilled orders are history and cannot be deleted
	order2, err := env.sales.Create(&CreateSalesOrderRequest{
		CustomerEmail: "buyer@example.com",
		ItemsData: []SalesOrderItemRequest{
			{VariationID: variation.ID, QuantitySold: 2, SalePricePerUnit: dec("19.99")},
		},
	}, "tester")
	require.NoError(t, err)
	_, err = env.sales.Transition(order2.ID, model.SalesFulfilled, "tester")
	require.NoError(t, err)

	err = env.sales.Delete(order2.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}
