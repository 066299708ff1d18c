package service

import (
	"testing"

	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with a single connection so
// transactions serialize the way row locks do in postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Variation{},
		&model.Supplier{},
		&model.PurchaseOrder{}, &model.PurchaseOrderItem{},
		&model.SalesOrder{}, &model.SalesOrderItem{},
		&model.StockMovement{},
		&model.User{}, &model.Group{}, &model.Permission{},
	))
	return db
}

type testEnv struct {
	db       *gorm.DB
	catalog  CatalogService
	supplier SupplierService
	purchase PurchaseOrderService
	sales    SalesOrderService

	variationRepo repository.VariationRepository
	movementRepo  repository.StockMovementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	productRepo := repository.NewProductRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseOrderRepo(db)
	salesRepo := repository.NewSalesOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	return &testEnv{
		db:            db,
		catalog:       NewCatalogService(productRepo, variationRepo, movementRepo, db, nil),
		supplier:      NewSupplierService(supplierRepo),
		purchase:      NewPurchaseOrderService(purchaseRepo, supplierRepo, variationRepo, movementRepo, db, nil),
		sales:         NewSalesOrderService(salesRepo, variationRepo, movementRepo, db, nil),
		variationRepo: variationRepo,
		movementRepo:  movementRepo,
	}
}

func (e *testEnv) createProduct(t *testing.T, name string) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Category: "General", Description: "test product"}
	require.NoError(t, e.catalog.CreateProduct(product, "tester"))
	return product
}

func (e *testEnv) createVariation(t *testing.T, productID uuid.UUID, sku string, stock int) *model.Variation {
	t.Helper()
	variation := &model.Variation{
		SKUCode:      sku,
		Attributes:   map[string]string{"size": "M"},
		StockLevel:   stock,
		ReorderLevel: 5,
	}
	require.NoError(t, e.catalog.CreateVariation(productID, variation, "tester"))
	return variation
}

func (e *testEnv) createSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{Name: name, Email: "contact@example.com", Phone: "555-0100"}
	require.NoError(t, e.supplier.Create(supplier, "tester"))
	return supplier
}

func (e *testEnv) stockLevel(t *testing.T, variationID uuid.UUID) int {
	t.Helper()
	variation, err := e.variationRepo.FindByID(variationID)
	require.NoError(t, err)
	return variation.StockLevel
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
