package service

import (
	"errors"
	"log"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/ws"
	"stockroom/pkg/apperr"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService owns products and variations. Stock moves through
// AdjustStock only; the order engines reuse the same guarded path inside
// their own transactions.
type CatalogService interface {
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	CreateVariation(productID uuid.UUID, req *model.Variation, userID string) error
	UpdateVariation(id uuid.UUID, req *model.Variation, userID string) (*model.Variation, error)
	DeleteVariation(id uuid.UUID) error
	GetVariation(id uuid.UUID) (*model.Variation, error)
	GetVariationsByProduct(productID uuid.UUID) ([]model.Variation, error)
	GetLowStockVariations() ([]model.Variation, error)

	AdjustStock(variationID uuid.UUID, delta int, userID string) (*model.Variation, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	variationRepo repository.VariationRepository
	movementRepo  repository.StockMovementRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	variationRepo repository.VariationRepository,
	movementRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		variationRepo: variationRepo,
		movementRepo:  movementRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *catalogService) publish(eventType string, payload map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.PublishEvent(eventType, payload)
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.ValidationFields(validator.FieldErrors(errs))
	}
	if req.Category == "" {
		req.Category = "General"
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.publish("catalog_update", map[string]interface{}{
		"action":  "product_created",
		"product": map[string]interface{}{"id": req.ID, "name": req.Name},
	})
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}

	existing.Name = req.Name
	existing.Category = req.Category
	existing.Description = req.Description
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return apperr.NotFound("product")
	}
	return s.productRepo.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	return product, nil
}

func (s *catalogService) CreateVariation(productID uuid.UUID, req *model.Variation, userID string) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return apperr.NotFound("product")
	}
	req.ProductID = productID

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.ValidationFields(validator.FieldErrors(errs))
	}

	// SKU codes are unique within their parent product
	existing, err := s.variationRepo.FindByProductAndSKU(productID, req.SKUCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return apperr.Validation("sku_code '%s' already exists for this product", req.SKUCode)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.variationRepo.Create(req); err != nil {
		return err
	}

	s.publish("catalog_update", map[string]interface{}{
		"action":    "variation_created",
		"variation": map[string]interface{}{"id": req.ID, "sku_code": req.SKUCode, "stock_level": req.StockLevel},
	})
	return nil
}

func (s *catalogService) UpdateVariation(id uuid.UUID, req *model.Variation, userID string) (*model.Variation, error) {
	existing, err := s.variationRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("variation")
	}

	if req.SKUCode != existing.SKUCode {
		dup, err := s.variationRepo.FindByProductAndSKU(existing.ProductID, req.SKUCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if dup != nil {
			return nil, apperr.Validation("sku_code '%s' already exists for this product", req.SKUCode)
		}
	}

	// Stock edits go through AdjustStock so the non-negative guard and the
	// movement trail always apply; a direct update here only touches metadata.
	existing.SKUCode = req.SKUCode
	existing.Attributes = req.Attributes
	existing.ReorderLevel = req.ReorderLevel
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	if err := s.variationRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteVariation(id uuid.UUID) error {
	if _, err := s.variationRepo.FindByID(id); err != nil {
		return apperr.NotFound("variation")
	}
	return s.variationRepo.Delete(id)
}

func (s *catalogService) GetVariation(id uuid.UUID) (*model.Variation, error) {
	variation, err := s.variationRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("variation")
	}
	return variation, nil
}

func (s *catalogService) GetVariationsByProduct(productID uuid.UUID) ([]model.Variation, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, apperr.NotFound("product")
	}
	return s.variationRepo.FindByProduct(productID)
}

func (s *catalogService) GetLowStockVariations() ([]model.Variation, error) {
	return s.variationRepo.FindLowStock()
}

// AdjustStock applies a direct admin delta under the same guard the order
// engines use. The delta is rejected, not clamped, when it would push the
// level negative.
func (s *catalogService) AdjustStock(variationID uuid.UUID, delta int, userID string) (*model.Variation, error) {
	var updated *model.Variation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		applied, err := s.variationRepo.AdjustStock(tx, variationID, delta)
		if err != nil {
			return err
		}
		if !applied {
			var variation model.Variation
			if err := tx.First(&variation, "id = ?", variationID).Error; err != nil {
				return apperr.NotFound("variation")
			}
			return apperr.NegativeStock(variation.SKUCode)
		}

		movementType := model.MovementIn
		quantity := delta
		if delta < 0 {
			movementType = model.MovementOut
			quantity = -delta
		}
		movement := &model.StockMovement{
			VariationID: variationID,
			Type:        movementType,
			Quantity:    quantity,
			Note:        "manual adjustment",
		}
		movement.CreatedBy = userID
		movement.UpdatedBy = userID
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNegativeStock) {
			// A guard hit on a manual edit is a caller mistake, but the same
			// guard tripping inside an engine means a lost race was let
			// through validation; keep the distinct log either way.
			log.Printf("NEGATIVE STOCK GUARD: variation=%s delta=%d user=%s", variationID, delta, userID)
		}
		return nil, err
	}

	updated, err = s.variationRepo.FindByID(variationID)
	if err != nil {
		return nil, err
	}

	s.publish("stock_update", map[string]interface{}{
		"action":    "stock_adjusted",
		"variation": map[string]interface{}{"id": updated.ID, "sku_code": updated.SKUCode, "stock_level": updated.StockLevel},
	})
	return updated, nil
}
