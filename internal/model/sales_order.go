package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrderStatus string

const (
	SalesPending   SalesOrderStatus = "Pending"
	SalesFulfilled SalesOrderStatus = "Fulfilled"
)

type SalesOrder struct {
	BaseModel
	CustomerEmail string           `gorm:"type:varchar(255);not null" json:"customer_email" validate:"required,email"`
	Status        SalesOrderStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`

	// Items are fixed at creation. Fulfilled is terminal.
	Items []SalesOrderItem `gorm:"foreignKey:SalesOrderID" json:"items"`
}

type SalesOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SalesOrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	VariationID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_variation" validate:"uuid_required"`
	Variation        *Variation      `gorm:"foreignKey:VariationID" json:"product_variation_details,omitempty" validate:"-"`
	QuantitySold     int             `gorm:"not null" json:"quantity_sold" validate:"required,gt=0"`
	SalePricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price_per_unit"`
}

func (i *SalesOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
