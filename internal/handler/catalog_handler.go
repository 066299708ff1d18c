package handler

import (
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(product)
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, &product, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetProductVariations lists a product's variations
// GET /api/v1/products/:id/variations
func (h *CatalogHandler) GetProductVariations(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	variations, err := h.service.GetVariationsByProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(variations)
}

// CreateProductVariation creates a variation under a product
// POST /api/v1/products/:id/variations
func (h *CatalogHandler) CreateProductVariation(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var variation model.Variation
	if err := c.BodyParser(&variation); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateVariation(productID, &variation, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(variation)
}

func (h *CatalogHandler) GetVariation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	variation, err := h.service.GetVariation(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(variation)
}

func (h *CatalogHandler) UpdateVariation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	var variation model.Variation
	if err := c.BodyParser(&variation); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateVariation(id, &variation, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *CatalogHandler) DeleteVariation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	if err := h.service.DeleteVariation(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Variation deleted"})
}

// GetLowStockVariations lists variations at or below their reorder level
// GET /api/v1/variations/low-stock
func (h *CatalogHandler) GetLowStockVariations(c *fiber.Ctx) error {
	variations, err := h.service.GetLowStockVariations()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(variations)
}

// AdjustStock applies a direct stock delta to a variation
// POST /api/v1/variations/:id/adjust-stock
func (h *CatalogHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Delta == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "delta must be non-zero"})
	}

	updated, err := h.service.AdjustStock(id, req.Delta, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}
