package model

import "github.com/shopspring/decimal"

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
)

type Customer struct {
	BaseModel
	CustomerCode  string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"customer_code" validate:"required,max=20"`
	Name          string         `gorm:"type:varchar(100);not null;index" json:"name" validate:"required,max=100"`
	Email         string         `gorm:"type:varchar(100);index" json:"email" validate:"omitempty,email,max=100"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	Address       string         `gorm:"type:text" json:"address"`
	ContactPerson string         `gorm:"type:varchar(50)" json:"contact_person" validate:"max=50"`
	ContactPhone  string         `gorm:"type:varchar(20)" json:"contact_phone" validate:"max=20"`
	Status        CustomerStatus `gorm:"type:varchar(20);not null;default:ACTIVE;index" json:"status"`

	// Advisory only: never checked against order totals. See DESIGN.md.
	CreditLimit decimal.Decimal `gorm:"type:decimal(15,2)" json:"credit_limit"`
}
