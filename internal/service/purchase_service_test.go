package service

import (
	"testing"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")

	require.NoError(t, err)
	assert.Equal(t, model.PurchaseDraft, order.Status)
	require.NotNil(t, order.Supplier)
	assert.Equal(t, "Acme Textiles", order.Supplier.Name)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "TS-RED-M", order.Items[0].Variation.SKUCode)

	// Draft creation never touches stock
	assert.Equal(t, 0, env.stockLevel(t, variation.ID))
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	t.Run("unknown supplier", func(t *testing.T) {
		_, err := env.purchase.Create(&CreatePurchaseOrderRequest{
			SupplierID: uuid.New(),
			ItemsData: []PurchaseOrderItemRequest{
				{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := env.purchase.Create(&CreatePurchaseOrderRequest{
			SupplierID: supplier.ID,
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := env.purchase.Create(&CreatePurchaseOrderRequest{
			SupplierID: supplier.ID,
			ItemsData: []PurchaseOrderItemRequest{
				{VariationID: variation.ID, QuantityOrdered: -1, CostPerUnit: dec("2.00")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("negative cost", func(t *testing.T) {
		_, err := env.purchase.Create(&CreatePurchaseOrderRequest{
			SupplierID: supplier.ID,
			ItemsData: []PurchaseOrderItemRequest{
				{VariationID: variation.ID, QuantityOrdered: 1, CostPerUnit: dec("-0.01")},
			},
		}, "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestPurchaseOrderReceiptFlow(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 3)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)

	submitted, err := env.purchase.Transition(order.ID, model.PurchaseSubmitted, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseSubmitted, submitted.Status)
	// Submission has no stock side effects
	assert.Equal(t, 3, env.stockLevel(t, variation.ID))

	received, err := env.purchase.Transition(order.ID, model.PurchaseReceived, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseReceived, received.Status)
	assert.Equal(t, 13, env.stockLevel(t, variation.ID))

	movements, err := env.movementRepo.FindAll()
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].Type)
	assert.Equal(t, 10, movements[0].Quantity)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, order.ID, *movements[0].ReferenceID)
}

func TestPurchaseOrderForwardOnlyTransitions(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)

	t.Run("cannot skip Submitted", func(t *testing.T) {
		_, err := env.purchase.Transition(order.ID, model.PurchaseReceived, "tester")
		assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
		assert.Equal(t, 0, env.stockLevel(t, variation.ID))
	})

	_, err = env.purchase.Transition(order.ID, model.PurchaseSubmitted, "tester")
	require.NoError(t, err)

	t.Run("cannot regress to Draft", func(t *testing.T) {
		_, err := env.purchase.Transition(order.ID, model.PurchaseDraft, "tester")
		assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	})

	_, err = env.purchase.Transition(order.ID, model.PurchaseReceived, "tester")
	require.NoError(t, err)

	t.Run("Received is terminal", func(t *testing.T) {
		for _, status := range []model.PurchaseOrderStatus{model.PurchaseDraft, model.PurchaseSubmitted, model.PurchaseReceived} {
			_, err := env.purchase.Transition(order.ID, status, "tester")
			assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
		}
		// Terminal retries never double-apply stock
		assert.Equal(t, 10, env.stockLevel(t, variation.ID))
	})

	t.Run("unknown status value", func(t *testing.T) {
		_, err := env.purchase.Transition(order.ID, "Shipped", "tester")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestStaleReceiptClaimRejected(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.purchase.Transition(order.ID, model.PurchaseSubmitted, "tester")
	require.NoError(t, err)
	_, err = env.purchase.Transition(order.ID, model.PurchaseReceived, "tester")
	require.NoError(t, err)
	assert.Equal(t, 10, env.stockLevel(t, variation.ID))

	// Replay the write a rival that read Submitted before the commit would
	// issue. The status guard must reject it, so its stock loop never runs
	// and the receipt cannot double-apply.
	repo := repository.NewPurchaseOrderRepo(env.db)
	applied, err := repo.UpdateStatus(env.db, order.ID, model.PurchaseSubmitted, model.PurchaseReceived, "rival")
	require.NoError(t, err)
	assert.False(t, applied, "a stale transition must not apply")

	assert.Equal(t, 10, env.stockLevel(t, variation.ID))
}

func TestPurchaseOrderReceiptAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	kept := env.createVariation(t, product.ID, "TS-RED-M", 0)
	doomed := env.createVariation(t, product.ID, "TS-BLUE-S", 0)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: kept.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
			{VariationID: doomed.ID, QuantityOrdered: 4, CostPerUnit: dec("3.50")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.purchase.Transition(order.ID, model.PurchaseSubmitted, "tester")
	require.NoError(t, err)

	// One variation disappears before the goods arrive
	require.NoError(t, env.variationRepo.Delete(doomed.ID))

	_, err = env.purchase.Transition(order.ID, model.PurchaseReceived, "tester")
	require.Error(t, err)

	// No partial receipt: the surviving variation saw nothing
	assert.Equal(t, 0, env.stockLevel(t, kept.ID))
	refreshed, err := env.purchase.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseSubmitted, refreshed.Status)
}

func TestDeletePurchaseOrderDraftOnly(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	order, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = env.purchase.Transition(order.ID, model.PurchaseSubmitted, "tester")
	require.NoError(t, err)

	err = env.purchase.Delete(order.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	draft, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 1, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)
	require.NoError(t, env.purchase.Delete(draft.ID))

	_, err = env.purchase.Get(draft.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSupplierDeleteRejectedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Acme Textiles")
	product := env.createProduct(t, "T-Shirt")
	variation := env.createVariation(t, product.ID, "TS-RED-M", 0)

	_, err := env.purchase.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		ItemsData: []PurchaseOrderItemRequest{
			{VariationID: variation.ID, QuantityOrdered: 10, CostPerUnit: dec("2.00")},
		},
	}, "tester")
	require.NoError(t, err)

	err = env.supplier.Delete(supplier.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// Unreferenced suppliers delete fine
	other := env.createSupplier(t, "Globex")
	require.NoError(t, env.supplier.Delete(other.ID))
}
