package handler

import (
	"strconv"

	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	userService service.UserService
}

func NewGroupHandler(userService service.UserService) *GroupHandler {
	return &GroupHandler{userService: userService}
}

func parseGroupID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

// GetGroups returns all groups with their permissions
// GET /api/v1/groups
func (h *GroupHandler) GetGroups(c *fiber.Ctx) error {
	groups, err := h.userService.GetAllGroups()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

// CreateGroup creates a group, optionally with a permission set
// POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req service.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	group, err := h.userService.CreateGroup(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(group)
}

// UpdateGroup renames a group and/or replaces its permission set
// PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := parseGroupID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var req service.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	group, err := h.userService.UpdateGroup(groupID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(group)
}

// DeleteGroup removes a group and detaches its members
// DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := parseGroupID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	if err := h.userService.DeleteGroup(groupID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// GetPermissions lists all permissions (read-only reference data)
// GET /api/v1/permissions
func (h *GroupHandler) GetPermissions(c *fiber.Ctx) error {
	permissions, err := h.userService.GetAllPermissions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(permissions)
}
