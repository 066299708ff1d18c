package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(order *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.PurchaseOrderStatus, updatedBy string) (applied bool, err error)
	Delete(id uuid.UUID) error
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

func (r *purchaseOrderRepo) Create(order *model.PurchaseOrder) error {
	return r.db.Create(order).Error
}

func (r *purchaseOrderRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Supplier").
		Preload("Items.Variation").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.FindByIDTx(r.db, id)
}

// FindByIDTx loads the order with supplier and item variation details
// resolved, on the given connection so transitions read inside their
// own transaction.
func (r *purchaseOrderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := tx.Preload("Supplier").
		Preload("Items.Variation").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus advances the order only while the row still holds the
// expected current status. applied=false means a rival transition got
// there first; the caller must not apply any stock effects.
func (r *purchaseOrderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.PurchaseOrderStatus, updatedBy string) (bool, error) {
	res := tx.Model(&model.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *purchaseOrderRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.PurchaseOrderItem{}, "purchase_order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PurchaseOrder{}, "id = ?", id).Error
	})
}
