package handler

import (
	"errors"
	"log"

	"stockroom/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

// respondError maps domain errors to HTTP statuses. Business-rule messages
// pass through verbatim so the UI can display them; unexpected faults
// become opaque 500s.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Println("internal error:", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		body := fiber.Map{"error": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return c.Status(400).JSON(body)
	case apperr.KindInvalidTransition:
		return c.Status(409).JSON(fiber.Map{"error": appErr.Message})
	case apperr.KindInsufficientStock:
		return c.Status(409).JSON(fiber.Map{"error": appErr.Message, "skus": appErr.SKUs})
	case apperr.KindNotFound:
		return c.Status(404).JSON(fiber.Map{"error": appErr.Message})
	case apperr.KindNegativeStock:
		// Should be unreachable given engine-level checks; log loudly
		log.Println("NEGATIVE STOCK GUARD reached handler:", appErr.Message)
		return c.Status(409).JSON(fiber.Map{"error": appErr.Message})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}
