package models

import (
	"time"
)

// Order status values
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
)

// Order represents a paid checkout. Rows are only written after the gateway
// approves the charge; amounts are integer pence.
type Order struct {
	BaseModel
	OrderID       string     `json:"order_id" gorm:"uniqueIndex;not null"`
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	PlanID        uint       `json:"plan_id" gorm:"not null;index"`
	SubtotalPence int64      `json:"subtotal_pence" gorm:"not null"`
	TaxPence      int64      `json:"tax_pence" gorm:"not null"`
	TaxRate       int        `json:"tax_rate" gorm:"not null"`
	TotalPence    int64      `json:"total_pence" gorm:"not null"`
	Currency      string     `json:"currency" gorm:"size:3;default:'GBP'"`
	CouponCode    string     `json:"coupon_code"`
	PaymentMethod string     `json:"payment_method"`
	CardLastFour  *string    `json:"card_last_four" gorm:"size:4"`
	CardBrand     *string    `json:"card_brand"`
	Status        string     `json:"status" gorm:"size:20;default:'pending';index"`
	PaidAt        *time.Time `json:"paid_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
	Plan *Plan `json:"-" gorm:"foreignKey:PlanID"`
}
