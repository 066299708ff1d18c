package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"  // purchase order receipt
	MovementOut MovementType = "OUT" // sales order fulfillment
)

// StockMovement is the audit trail of every stock mutation. Rows are
// written inside the same transaction as the stock change itself, so a
// rolled-back transition leaves no trace here either.
type StockMovement struct {
	BaseModel
	VariationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"variation_id"`
	Variation   *Variation   `gorm:"foreignKey:VariationID" json:"variation,omitempty"`
	Type        MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"`

	// ReferenceID points at the order (purchase or sales) that caused
	// the movement, or is nil for direct admin adjustments.
	ReferenceID *uuid.UUID `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Note        string     `gorm:"type:text" json:"note,omitempty"`
}
