package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailConfirmation is the denormalized audit copy of a confirmation email.
// A row is written even when delivery fails so it can be reconciled later.
type EmailConfirmation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TransactionID   string         `gorm:"size:100;not null;index" json:"transaction_id"`
	PayerEmail      string         `gorm:"size:100;not null" json:"payer_email"`
	CustomerName    string         `gorm:"size:100;not null" json:"customer_name"`
	ShippingAddress datatypes.JSON `gorm:"not null" json:"shipping_address"`
	Cart            datatypes.JSON `gorm:"not null" json:"cart"`
	PromoCode       *string        `gorm:"size:50" json:"promo_code"`
	ColorSelections datatypes.JSON `json:"color_selections"`
	Sent            bool           `gorm:"not null" json:"sent"`
	SendError       string         `gorm:"size:500" json:"send_error,omitempty"`
	Date            time.Time      `gorm:"autoCreateTime" json:"date"`
}
