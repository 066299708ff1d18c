package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariationRepository interface {
	Create(variation *model.Variation) error
	FindAll() ([]model.Variation, error)
	FindByID(id uuid.UUID) (*model.Variation, error)
	FindByProduct(productID uuid.UUID) ([]model.Variation, error)
	FindByProductAndSKU(productID uuid.UUID, skuCode string) (*model.Variation, error)
	FindLowStock() ([]model.Variation, error)
	Update(variation *model.Variation) error
	Delete(id uuid.UUID) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) (applied bool, err error)
}

type variationRepo struct {
	db *gorm.DB
}

func NewVariationRepo(db *gorm.DB) VariationRepository {
	return &variationRepo{db}
}

func (r *variationRepo) Create(variation *model.Variation) error {
	return r.db.Create(variation).Error
}

func (r *variationRepo) FindAll() ([]model.Variation, error) {
	var variations []model.Variation
	err := r.db.Preload("Product").Find(&variations).Error
	return variations, err
}

func (r *variationRepo) FindByID(id uuid.UUID) (*model.Variation, error) {
	var variation model.Variation
	err := r.db.Preload("Product").First(&variation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *variationRepo) FindByProduct(productID uuid.UUID) ([]model.Variation, error) {
	var variations []model.Variation
	err := r.db.Where("product_id = ?", productID).Find(&variations).Error
	return variations, err
}

func (r *variationRepo) FindByProductAndSKU(productID uuid.UUID, skuCode string) (*model.Variation, error) {
	var variation model.Variation
	err := r.db.Where("product_id = ? AND sku_code = ?", productID, skuCode).First(&variation).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *variationRepo) FindLowStock() ([]model.Variation, error) {
	var variations []model.Variation
	err := r.db.Preload("Product").Where("stock_level <= reorder_level").Find(&variations).Error
	return variations, err
}

func (r *variationRepo) Update(variation *model.Variation) error {
	return r.db.Save(variation).Error
}

func (r *variationRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Variation{}, "id = ?", id).Error
}

// AdjustStock applies delta in a single guarded UPDATE. The WHERE clause
// rejects any result below zero, and the row lock it takes serializes
// rival adjustments for the rest of the surrounding transaction.
// applied=false means either the guard rejected the delta or the row
// does not exist; the caller disambiguates.
func (r *variationRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Variation{}).
		Where("id = ? AND stock_level + ? >= 0", id, delta).
		Update("stock_level", gorm.Expr("stock_level + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
