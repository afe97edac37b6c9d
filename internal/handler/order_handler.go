package handler

import (
	"time"

	"go-order-ws/internal/model"
	"go-order-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(&req, getUsername(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrderByNumber(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByNumber(c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	page, size := parsePagination(c)

	// Optional filters collapse the listing to unpaginated subsets
	if status := c.Query("status"); status != "" {
		orders, err := h.service.ListByStatus(model.OrderStatus(status))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}
	if payment := c.Query("payment_status"); payment != "" {
		orders, err := h.service.ListByPaymentStatus(model.PaymentStatus(payment))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}

	orders, total, err := h.service.ListOrders(page, size)
	if err != nil {
		return respondError(c, err)
	}
	return paginatedJSON(c, orders, total, page, size)
}

func (h *OrderHandler) GetOrdersByCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("customerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	orders, err := h.service.ListByCustomer(customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrdersByDateRange(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start date, use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end date, use YYYY-MM-DD"})
	}
	page, size := parsePagination(c)

	orders, total, err := h.service.ListByDateRange(start, end.Add(24*time.Hour-time.Nanosecond), page, size)
	if err != nil {
		return respondError(c, err)
	}
	return paginatedJSON(c, orders, total, page, size)
}

func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateOrder(id, &req, getUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Status is required"})
	}

	order, err := h.service.UpdateOrderStatus(id, model.OrderStatus(req.Status), getUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}

// UpdatePaymentStatus handles PATCH /api/v1/orders/:id/payment-status
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.PaymentStatus == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Payment status is required"})
	}

	order, err := h.service.UpdatePaymentStatus(id, model.PaymentStatus(req.PaymentStatus), getUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment status updated", "data": order})
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.DeleteOrder(id, getUsername(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

// GetOrderStats handles GET /api/v1/orders/stats
func (h *OrderHandler) GetOrderStats(c *fiber.Ctx) error {
	byStatus, err := h.service.CountByStatus()
	if err != nil {
		return respondError(c, err)
	}
	byPayment, err := h.service.CountByPaymentStatus()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"by_status":         byStatus,
		"by_payment_status": byPayment,
	})
}

// GetOrderRevenue handles GET /api/v1/orders/stats/revenue?start=&end=
func (h *OrderHandler) GetOrderRevenue(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start date, use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end date, use YYYY-MM-DD"})
	}

	sum, err := h.service.SumFinalAmountBetween(start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total_final_amount": sum})
}
