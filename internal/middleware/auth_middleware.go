package middleware

import (
	"strings"

	"stockroom/internal/repository"
	"stockroom/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("username", claims.Username)
		c.Locals("is_admin", claims.IsAdmin)
		c.Locals("permissions", claims.Permissions)

		return c.Next()
	}
}

// RequirePermission checks if the authenticated user holds the required
// permission through group membership. Admins bypass the gate.
func RequirePermission(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); ok && isAdmin {
			return c.Next()
		}

		permissions, ok := c.Locals("permissions").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No permissions found"})
		}

		for _, p := range permissions {
			if p == requiredPermission {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPermission + "' permission",
		})
	}
}

// RequireAdmin gates routes to staff users only
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); ok && isAdmin {
			return c.Next()
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: admin only"})
	}
}
