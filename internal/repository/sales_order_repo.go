package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(order *model.SalesOrder) error
	FindAll() ([]model.SalesOrder, error)
	FindByID(id uuid.UUID) (*model.SalesOrder, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SalesOrder, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.SalesOrderStatus, updatedBy string) (applied bool, err error)
	Delete(id uuid.UUID) error
}

type salesOrderRepo struct {
	db *gorm.DB
}

func NewSalesOrderRepo(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepo{db}
}

func (r *salesOrderRepo) Create(order *model.SalesOrder) error {
	return r.db.Create(order).Error
}

func (r *salesOrderRepo) FindAll() ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	err := r.db.Preload("Items.Variation").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *salesOrderRepo) FindByID(id uuid.UUID) (*model.SalesOrder, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *salesOrderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	err := tx.Preload("Items.Variation").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus advances the order only while the row still holds the
// expected current status, in the same guarded-UPDATE discipline as
// stock adjustments. applied=false means a rival transition got there
// first; the caller must not apply any stock effects.
func (r *salesOrderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.SalesOrderStatus, updatedBy string) (bool, error) {
	res := tx.Model(&model.SalesOrder{}).
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

func (r *salesOrderRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.SalesOrderItem{}, "sales_order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SalesOrder{}, "id = ?", id).Error
	})
}
