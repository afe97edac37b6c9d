package service

import (
	"testing"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/internal/ws"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	orders    OrderService
	products  ProductService
	customers CustomerService
	inventory InventoryService
	auth      AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryTransaction{},
	))

	hub := ws.NewHub()
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	return &fixture{
		db:        db,
		orders:    NewOrderService(orderRepo, productRepo, customerRepo, inventoryRepo, db, hub),
		products:  NewProductService(productRepo, inventoryRepo, db, hub),
		customers: NewCustomerService(customerRepo),
		inventory: NewInventoryService(inventoryRepo),
		auth:      NewAuthService(userRepo),
	}
}

func (f *fixture) seedProduct(t *testing.T, code, name, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		ProductCode:   code,
		Name:          name,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
		MinStock:      5,
		Unit:          "pcs",
		Status:        model.ProductActive,
	}
	require.NoError(t, f.products.CreateProduct(p, "tester"))
	return p
}

func (f *fixture) seedCustomer(t *testing.T, code, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{
		CustomerCode: code,
		Name:         name,
		Email:        code + "@example.com",
		Status:       model.CustomerActive,
	}
	require.NoError(t, f.customers.CreateCustomer(c, "tester"))
	return c
}

func (f *fixture) productStock(t *testing.T, p *model.Product) int {
	t.Helper()
	got, err := f.products.GetProduct(p.ID)
	require.NoError(t, err)
	return got.StockQuantity
}

func (f *fixture) ledgerFor(t *testing.T, p *model.Product) []model.InventoryTransaction {
	t.Helper()
	entries, err := f.inventory.ListByProduct(p.ID)
	require.NoError(t, err)
	return entries
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, kind, ae.Kind, "unexpected error kind: %v", err)
}
