package service

import (
	"testing"
	"time"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryLedgerViews(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 50)

	_, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = fx.products.AdjustStock(product.ID, &AdjustStockRequest{QuantityChange: 10, Notes: "restock"}, "tester")
	require.NoError(t, err)

	all, total, err := fx.inventory.ListTransactions(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	byProduct, err := fx.inventory.ListByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)

	// Snapshots chain: each entry starts where the previous one ended.
	assert.Equal(t, byProduct[0].AfterQuantity, byProduct[1].BeforeQuantity)

	single, err := fx.inventory.GetTransaction(byProduct[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxOut, single.Type)
	require.NotNil(t, single.Product)
	assert.Equal(t, "PRD-001", single.Product.ProductCode)

	_, err = fx.inventory.GetTransaction(uuid.New())
	requireKind(t, err, apperr.KindNotFound)

	net, err := fx.inventory.NetChange(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, net)
}

func TestStockMovementAggregation(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 50)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}, "tester")
	require.NoError(t, err)
	require.NoError(t, fx.orders.DeleteOrder(order.ID, "tester"))

	movement, err := fx.inventory.GetStockMovement(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.Equal(t, 4, movement[0].Inbound)
	assert.Equal(t, 4, movement[0].Outbound)
}

func TestDashboardStats(t *testing.T) {
	fx := newFixture(t)
	fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 50)
	fx.seedProduct(t, "PRD-002", "Mouse", "10.00", 2) // below MinStock of 5

	stats, err := fx.inventory.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.InDelta(t, 5020.0, stats.TotalValuation, 0.001)
}
