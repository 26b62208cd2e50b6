package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPromoDiscount is the percentage applied when a promo code is created
// without an explicit discount.
var DefaultPromoDiscount = decimal.NewFromInt(10)

// PromoCode is a named discount descriptor. It is not linked to orders and
// never changes a computed total.
type PromoCode struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Discount       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount"`
	ExpirationDate *time.Time      `json:"expirationDate"`
	IsActive       bool            `gorm:"not null" json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Usable reports whether the code is active and not yet expired at now.
func (p PromoCode) Usable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.ExpirationDate == nil || p.ExpirationDate.After(now)
}
