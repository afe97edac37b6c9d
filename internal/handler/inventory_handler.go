package handler

import (
	"time"

	"go-order-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	page, size := parsePagination(c)

	entries, total, err := h.service.ListTransactions(page, size)
	if err != nil {
		return respondError(c, err)
	}
	return paginatedJSON(c, entries, total, page, size)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	entry, err := h.service.GetTransaction(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *InventoryHandler) GetTransactionsByProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	entries, err := h.service.ListByProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// GetProductNetChange handles GET /api/v1/inventory/products/:productId/net-change
func (h *InventoryHandler) GetProductNetChange(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	net, err := h.service.NetChange(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "net_change": net})
}

func (h *InventoryHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetStockMovement handles GET /api/v1/dashboard/stock-movement?range=7d
func (h *InventoryHandler) GetStockMovement(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d") // Default 7 days
	now := time.Now()
	var startDate time.Time

	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "6m":
		startDate = now.AddDate(0, -6, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		startDate = now.AddDate(0, 0, -7)
	}

	movement, err := h.service.GetStockMovement(startDate, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movement)
}
