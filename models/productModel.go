package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name     string          `gorm:"size:100;not null" json:"name"`
	Category string          `gorm:"size:100;not null;index" json:"category"`
	Image    string          `gorm:"size:200;not null" json:"image"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity int             `gorm:"not null" json:"quantity"`
}
