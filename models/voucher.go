package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher types
const (
	VoucherPercentage = "percentage"
	VoucherFixed      = "fixed"
)

// Voucher is a discount code with usage constraints
type Voucher struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`
	Type          string         `gorm:"not null" json:"type"` // percentage, fixed
	Value         float64        `gorm:"not null" json:"value"`
	MinOrderValue float64        `gorm:"not null;default:0" json:"min_order_value"`
	MaxDiscount   float64        `gorm:"not null;default:0" json:"max_discount"` // cap for percentage type, 0 = uncapped
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy     *uint          `json:"-"`
}

// TableName specifies the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// Validate checks the voucher against an order value at a point in time.
// It returns the reason the voucher cannot be used, or "" when valid.
func (v *Voucher) Validate(orderValue float64, now time.Time) string {
	switch {
	case !v.Active:
		return "Voucher is not active"
	case now.Before(v.StartDate):
		return "Voucher is not yet valid"
	case now.After(v.EndDate):
		return "Voucher has expired"
	case v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit:
		return "Voucher usage limit reached"
	case orderValue < v.MinOrderValue:
		return "Order value is below the voucher minimum"
	}
	return ""
}

// DiscountFor computes the discount amount this voucher grants on an
// order value. Percentage discounts are capped at MaxDiscount when set;
// no discount ever exceeds the order value.
func (v *Voucher) DiscountFor(orderValue float64) float64 {
	var discount float64
	switch v.Type {
	case VoucherPercentage:
		discount = orderValue * v.Value / 100
		if v.MaxDiscount > 0 && discount > v.MaxDiscount {
			discount = v.MaxDiscount
		}
	case VoucherFixed:
		discount = v.Value
	}
	if discount > orderValue {
		discount = orderValue
	}
	return discount
}
