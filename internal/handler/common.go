package handler

import (
	"errors"
	"log"

	"go-order-ws/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps taxonomy errors to HTTP statuses. Internal failures are
// logged with full context and surfaced as a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindNotFound:
			return c.Status(404).JSON(fiber.Map{"error": ae.Message})
		case apperr.KindDuplicate:
			return c.Status(409).JSON(fiber.Map{"error": ae.Message})
		case apperr.KindInsufficientStock, apperr.KindInvalidTransition, apperr.KindValidation:
			return c.Status(400).JSON(fiber.Map{"error": ae.Message})
		default:
			log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), ae.Unwrap())
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}
	log.Printf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUsername(c *fiber.Ctx) string {
	username := c.Locals("username")
	if username == nil {
		return "system"
	}
	return username.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parsePagination reads ?page= and ?size= with sane defaults and caps.
func parsePagination(c *fiber.Ctx) (page, size int) {
	page = c.QueryInt("page", 1)
	size = c.QueryInt("size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func paginatedJSON(c *fiber.Ctx, data interface{}, total int64, page, size int) error {
	return c.JSON(fiber.Map{
		"data":  data,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
