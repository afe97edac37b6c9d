package service

import (
	"strings"
	"testing"
	"time"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.LessOrEqual(t, len(order.OrderNumber), 20)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, model.PaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, "CNY", order.Currency)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("11998.00")), "total = %s", order.TotalAmount)
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("11998.00")), "final = %s", order.FinalAmount)

	assert.Equal(t, 98, fx.productStock(t, product))

	// One OUT ledger entry referencing the order, with exact snapshots.
	entries := fx.ledgerFor(t, product)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TxOut, entries[0].Type)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, 100, entries[0].BeforeQuantity)
	assert.Equal(t, 98, entries[0].AfterQuantity)
	assert.Equal(t, model.RefOrder, entries[0].ReferenceType)
	require.NotNil(t, entries[0].ReferenceID)
	assert.Equal(t, order.ID, *entries[0].ReferenceID)

	reloaded, err := fx.orders.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Subtotal.Equal(decimal.RequireFromString("11998.00")))
}

func TestGenerateOrderNumberFitsColumn(t *testing.T) {
	// order_number is varchar(20); a generated value that exceeds it would
	// fail every create that omits the number on Postgres.
	for i := 0; i < 100; i++ {
		n := generateOrderNumber()
		assert.LessOrEqual(t, len(n), 20, "generated %q", n)
		assert.True(t, strings.HasPrefix(n, "ORD-"))
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 1)

	_, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	requireKind(t, err, apperr.KindInsufficientStock)

	// Rejection leaves no trace: no order, no items, no ledger entry, stock intact.
	assert.Equal(t, 1, fx.productStock(t, product))
	assert.Empty(t, fx.ledgerFor(t, product))

	var orderCount, itemCount int64
	require.NoError(t, fx.db.Model(&model.Order{}).Count(&orderCount).Error)
	require.NoError(t, fx.db.Model(&model.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestCreateOrderAggregatesLinesPerProduct(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 3)

	// Each line passes on its own; together they exceed stock.
	_, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5999.00")},
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	requireKind(t, err, apperr.KindInsufficientStock)
	assert.Equal(t, 3, fx.productStock(t, product))
}

func TestCreateOrderMultipleLinesSameProductDecrementsOnce(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 10)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100.00")},
			{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, 5, fx.productStock(t, product))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("500.00")))

	// Combined movement recorded as a single OUT entry for the product.
	entries := fx.ledgerFor(t, product)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.Equal(t, 10, entries[0].BeforeQuantity)
	assert.Equal(t, 5, entries[0].AfterQuantity)
}

func TestCreateOrderDuplicateNumber(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	req := &CreateOrderRequest{
		OrderNumber: "ORD-20260828-TEST",
		CustomerID:  customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}
	_, err := fx.orders.CreateOrder(req, "tester")
	require.NoError(t, err)

	_, err = fx.orders.CreateOrder(req, "tester")
	requireKind(t, err, apperr.KindDuplicate)
}

func TestCreateOrderUnknownCustomerAndProduct(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	_, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: uuid.New(),
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	requireKind(t, err, apperr.KindNotFound)

	_, err = fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	requireKind(t, err, apperr.KindNotFound)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	// No items.
	_, err := fx.orders.CreateOrder(&CreateOrderRequest{CustomerID: customer.ID}, "tester")
	requireKind(t, err, apperr.KindValidation)

	// Non-positive unit price.
	_, err = fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.Zero},
		},
	}, "tester")
	requireKind(t, err, apperr.KindValidation)

	// Discount rate above 100.
	_, err = fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"), DiscountRate: decimal.RequireFromString("150")},
		},
	}, "tester")
	requireKind(t, err, apperr.KindValidation)
}

func TestOrderStatusLifecycle(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	for _, next := range []model.OrderStatus{
		model.OrderConfirmed, model.OrderProcessing, model.OrderShipped, model.OrderDelivered,
	} {
		updated, err := fx.orders.UpdateOrderStatus(order.ID, next, "tester")
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, updated.Status)
	}

	// DELIVERED is terminal.
	_, err = fx.orders.UpdateOrderStatus(order.ID, model.OrderCancelled, "tester")
	requireKind(t, err, apperr.KindInvalidTransition)

	reloaded, err := fx.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, reloaded.Status)
}

func TestUpdateOrderStatusRejectsSkips(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = fx.orders.UpdateOrderStatus(order.ID, model.OrderShipped, "tester")
	requireKind(t, err, apperr.KindInvalidTransition)

	_, err = fx.orders.UpdateOrderStatus(order.ID, model.OrderStatus("BOGUS"), "tester")
	requireKind(t, err, apperr.KindValidation)

	reloaded, err := fx.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, reloaded.Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	updated, err := fx.orders.UpdatePaymentStatus(order.ID, model.PaymentPaid, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)

	_, err = fx.orders.UpdatePaymentStatus(order.ID, model.PaymentStatus("BOGUS"), "tester")
	requireKind(t, err, apperr.KindValidation)
}

func TestUpdateOrderRecomputesFinalAmount(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	discount := decimal.RequireFromString("1000.00")
	tax := decimal.RequireFromString("500.00")
	updated, err := fx.orders.UpdateOrder(order.ID, &UpdateOrderRequest{
		DiscountAmount: &discount,
		TaxAmount:      &tax,
	}, "tester")
	require.NoError(t, err)
	assert.True(t, updated.FinalAmount.Equal(decimal.RequireFromString("11498.00")), "final = %s", updated.FinalAmount)

	// Discount larger than total + tax would drive the final amount negative.
	huge := decimal.RequireFromString("20000.00")
	_, err = fx.orders.UpdateOrder(order.ID, &UpdateOrderRequest{DiscountAmount: &huge}, "tester")
	requireKind(t, err, apperr.KindValidation)
}

func TestDeleteOrderRestoresStock(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 10)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)
	require.Equal(t, 7, fx.productStock(t, product))

	require.NoError(t, fx.orders.DeleteOrder(order.ID, "tester"))

	assert.Equal(t, 10, fx.productStock(t, product))

	// The OUT entry from creation stays; deletion appends a compensating IN.
	entries := fx.ledgerFor(t, product)
	require.Len(t, entries, 2)
	types := map[model.TransactionType]model.InventoryTransaction{}
	for _, e := range entries {
		types[e.Type] = e
	}
	in, ok := types[model.TxIn]
	require.True(t, ok, "expected an IN entry")
	assert.Equal(t, 3, in.Quantity)
	assert.Equal(t, 7, in.BeforeQuantity)
	assert.Equal(t, 10, in.AfterQuantity)

	_, err = fx.orders.GetOrder(order.ID)
	requireKind(t, err, apperr.KindNotFound)

	var itemCount int64
	require.NoError(t, fx.db.Model(&model.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestDeleteOrderOnlyWhenPending(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "5999.00", 10)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("5999.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = fx.orders.UpdateOrderStatus(order.ID, model.OrderConfirmed, "tester")
	require.NoError(t, err)

	err = fx.orders.DeleteOrder(order.ID, "tester")
	requireKind(t, err, apperr.KindValidation)

	// Nothing restored, order still present.
	assert.Equal(t, 7, fx.productStock(t, product))
	_, err = fx.orders.GetOrder(order.ID)
	require.NoError(t, err)
}

func TestLedgerReplayMatchesStock(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = fx.products.AdjustStock(product.ID, &AdjustStockRequest{QuantityChange: 5, Notes: "recount"}, "tester")
	require.NoError(t, err)

	require.NoError(t, fx.orders.DeleteOrder(order.ID, "tester"))

	// Net ledger change replays to the current stock level.
	net, err := fx.inventory.NetChange(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 100+net, fx.productStock(t, product))
	assert.Equal(t, 5, net)
}

func TestOrderQueries(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	other := fx.seedCustomer(t, "CUST-002", "Globex")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 100)

	for i, cid := range []uuid.UUID{customer.ID, customer.ID, other.ID} {
		_, err := fx.orders.CreateOrder(&CreateOrderRequest{
			CustomerID: cid,
			Items: []OrderItemRequest{
				{ProductID: product.ID, Quantity: i + 1, UnitPrice: decimal.RequireFromString("100.00")},
			},
		}, "tester")
		require.NoError(t, err)
	}

	all, total, err := fx.orders.ListOrders(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	mine, err := fx.orders.ListByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := fx.orders.ListByStatus(model.OrderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	_, err = fx.orders.ListByStatus(model.OrderStatus("BOGUS"))
	requireKind(t, err, apperr.KindValidation)

	counts, err := fx.orders.CountByStatus()
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(3), counts[0].Count)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	sum, err := fx.orders.SumFinalAmountBetween(start, end)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("600.00")), "sum = %s", sum)

	ranged, total, err := fx.orders.ListByDateRange(start, end, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, ranged, 3)
}

func TestGetOrderByNumber(t *testing.T) {
	fx := newFixture(t)
	customer := fx.seedCustomer(t, "CUST-001", "Acme Trading")
	product := fx.seedProduct(t, "PRD-001", "Laptop", "100.00", 100)

	order, err := fx.orders.CreateOrder(&CreateOrderRequest{
		OrderNumber: "ORD-LOOKUP-1",
		CustomerID:  customer.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}, "tester")
	require.NoError(t, err)

	found, err := fx.orders.GetOrderByNumber("ORD-LOOKUP-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = fx.orders.GetOrderByNumber("ORD-MISSING")
	requireKind(t, err, apperr.KindNotFound)
}
