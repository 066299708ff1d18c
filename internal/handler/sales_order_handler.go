package handler

import (
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SalesOrderHandler struct {
	service service.SalesOrderService
}

func NewSalesOrderHandler(s service.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: s}
}

// CreateSalesOrder creates a Pending order with its line items
// POST /api/v1/sales-orders
func (h *SalesOrderHandler) CreateSalesOrder(c *fiber.Ctx) error {
	var req service.CreateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(order)
}

func (h *SalesOrderHandler) GetSalesOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *SalesOrderHandler) GetSalesOrder(c *fiber.Ctx) error {
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

// TransitionSalesOrder advances the order status
// PATCH /api/v1/sales-orders/:id with {"status": "..."}
func (h *SalesOrderHandler) TransitionSalesOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Status model.SalesOrderStatus `json:"status"`
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

func (h *SalesOrderHandler) DeleteSalesOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sales order deleted"})
}
