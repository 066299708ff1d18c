package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderStatus string

const (
	PurchaseDraft     PurchaseOrderStatus = "Draft"
	PurchaseSubmitted PurchaseOrderStatus = "Submitted"
	PurchaseReceived  PurchaseOrderStatus = "Received"
)

// NextPurchaseStatus returns the single legal successor of a purchase
// order status. Received is terminal.
func NextPurchaseStatus(s PurchaseOrderStatus) (PurchaseOrderStatus, bool) {
	switch s {
	case PurchaseDraft:
		return PurchaseSubmitted, true
	case PurchaseSubmitted:
		return PurchaseReceived, true
	}
	return "", false
}

type PurchaseOrder struct {
	BaseModel
	SupplierID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier" validate:"uuid_required"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier_details,omitempty" validate:"-"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'Draft'" json:"status"`

	// Items are fixed at creation; they never change once the order
	// leaves Draft (and no edit path exists while in Draft either).
	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	VariationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_variation" validate:"uuid_required"`
	Variation       *Variation      `gorm:"foreignKey:VariationID" json:"product_variation_details,omitempty" validate:"-"`
	QuantityOrdered int             `gorm:"not null" json:"quantity_ordered" validate:"required,gt=0"`
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_per_unit"`
}

func (i *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
