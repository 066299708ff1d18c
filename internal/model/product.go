package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Category    string `gorm:"type:varchar(100);default:'General'" json:"category"`
	Description string `gorm:"type:text" json:"description"`

	Variations []Variation `json:"variations,omitempty"`
}

// Variation is a concrete purchasable SKU of a product. Stock mutation
// authority belongs to the order engines; direct edits go through the
// same guarded adjustment path.
type Variation struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_sku" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	// SKUCode is unique within its parent product
	SKUCode      string            `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_sku" json:"sku_code" validate:"required"`
	Attributes   map[string]string `gorm:"serializer:json" json:"attributes"`
	StockLevel   int               `gorm:"not null;default:0" json:"stock_level" validate:"gte=0"`
	ReorderLevel int               `gorm:"not null;default:10" json:"reorder_level" validate:"gte=0"`
}

func (Variation) TableName() string {
	return "product_variations"
}

// IsLowStock reports whether the variation sits at or below its advisory
// reorder threshold.
func (v *Variation) IsLowStock() bool {
	return v.StockLevel <= v.ReorderLevel
}
