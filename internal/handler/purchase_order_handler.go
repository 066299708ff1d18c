package handler

import (
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PurchaseOrderHandler struct {
	service service.PurchaseOrderService
}

func NewPurchaseOrderHandler(s service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: s}
}

// CreatePurchaseOrder creates a Draft order with its line items
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(order)
}

func (h *PurchaseOrderHandler) GetPurchaseOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *PurchaseOrderHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// TransitionPurchaseOrder advances the order status
// PATCH /api/v1/purchase-orders/:id with {"status": "..."}
func (h *PurchaseOrderHandler) TransitionPurchaseOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Status model.PurchaseOrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	order, err := h.service.Transition(id, req.Status, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order deleted"})
}
