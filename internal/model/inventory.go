package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxIn         TransactionType = "IN"
	TxOut        TransactionType = "OUT"
	TxAdjustment TransactionType = "ADJUSTMENT"
)

type ReferenceType string

const (
	RefOrder      ReferenceType = "ORDER"
	RefPurchase   ReferenceType = "PURCHASE"
	RefAdjustment ReferenceType = "ADJUSTMENT"
	RefReturn     ReferenceType = "RETURN"
)

// InventoryTransaction is an append-only stock movement record with
// before/after snapshots. Rows are never updated or deleted.
type InventoryTransaction struct {
	BaseModel
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Type           TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity       int             `gorm:"not null" json:"quantity"` // magnitude, always > 0
	BeforeQuantity int             `gorm:"not null" json:"before_quantity"`
	AfterQuantity  int             `gorm:"not null" json:"after_quantity"`
	ReferenceType  ReferenceType   `gorm:"type:varchar(20);index" json:"reference_type,omitempty"`
	ReferenceID    *uuid.UUID      `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes"`
}

func NewInventoryIn(productID uuid.UUID, quantity, before int, refType ReferenceType, refID *uuid.UUID, notes string) *InventoryTransaction {
	return &InventoryTransaction{
		ProductID:      productID,
		Type:           TxIn,
		Quantity:       quantity,
		BeforeQuantity: before,
		AfterQuantity:  before + quantity,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Notes:          notes,
	}
}

func NewInventoryOut(productID uuid.UUID, quantity, before int, refType ReferenceType, refID *uuid.UUID, notes string) *InventoryTransaction {
	return &InventoryTransaction{
		ProductID:      productID,
		Type:           TxOut,
		Quantity:       quantity,
		BeforeQuantity: before,
		AfterQuantity:  before - quantity,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Notes:          notes,
	}
}

// NewInventoryAdjustment records a signed stock correction. Quantity stores
// the magnitude; the sign is recoverable from the before/after snapshots.
func NewInventoryAdjustment(productID uuid.UUID, delta, before int, notes string) *InventoryTransaction {
	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}
	return &InventoryTransaction{
		ProductID:      productID,
		Type:           TxAdjustment,
		Quantity:       quantity,
		BeforeQuantity: before,
		AfterQuantity:  before + delta,
		ReferenceType:  RefAdjustment,
		Notes:          notes,
	}
}
