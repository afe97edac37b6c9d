package model

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductActive       ProductStatus = "ACTIVE"
	ProductInactive     ProductStatus = "INACTIVE"
	ProductDiscontinued ProductStatus = "DISCONTINUED"
)

type Product struct {
	BaseModel
	ProductCode   string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_code" validate:"required,max=20"`
	Name          string          `gorm:"type:varchar(100);not null;index" json:"name" validate:"required,max=100"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      string          `gorm:"type:varchar(50);index" json:"category" validate:"max=50"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	MinStock      int             `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:ACTIVE;index" json:"status"`
}

// HasSufficientStock reports whether the product can cover the requested quantity.
func (p *Product) HasSufficientStock(required int) bool {
	return p.StockQuantity >= required
}

// NeedsRestock reports whether stock has fallen to or below the minimum threshold.
func (p *Product) NeedsRestock() bool {
	return p.StockQuantity <= p.MinStock
}
