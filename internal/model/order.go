package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// orderTransitions is the allowed transition table. DELIVERED and CANCELLED
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransitionTo reports whether the status change is allowed by the state machine.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	OrderNumber     string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number" validate:"max=20"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	OrderDate       time.Time       `gorm:"not null;index" json:"order_date"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(15,2)" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(15,2)" json:"tax_amount"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"final_amount"`
	Currency        string          `gorm:"type:varchar(3);default:CNY" json:"currency" validate:"max=3"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:UNPAID;index" json:"payment_status"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method" validate:"max=50"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// CalculateFinalAmount recomputes FinalAmount = total - discount + tax.
// It is the single authoritative place this derivation lives; every
// amount-mutating path must call it before persisting.
func (o *Order) CalculateFinalAmount() {
	o.FinalAmount = o.TotalAmount.Sub(o.DiscountAmount).Add(o.TaxAmount)
}

// CalculateTotalAmount sums the subtotals of the loaded items.
func (o *Order) CalculateTotalAmount() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal)
	}
	o.TotalAmount = total
}

func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderCancelled)
}

func (o *Order) CanShip() bool {
	return o.Status == OrderConfirmed || o.Status == OrderProcessing
}

type OrderItem struct {
	BaseModel
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity       int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_rate"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	Notes          string          `gorm:"type:text" json:"notes"`
}

// CalculateSubtotal derives DiscountAmount and Subtotal from quantity, unit
// price and discount rate. Subtotal is never trusted from input; this is the
// only writer.
func (i *OrderItem) CalculateSubtotal() {
	lineTotal := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	i.DiscountAmount = lineTotal.Mul(i.DiscountRate).Div(decimal.NewFromInt(100))
	i.Subtotal = lineTotal.Sub(i.DiscountAmount)
}
