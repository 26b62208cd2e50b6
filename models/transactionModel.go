package models

import "github.com/shopspring/decimal"

// Transaction mirrors a captured PayPal payment for auditing.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        string          `gorm:"size:6;index" json:"userId"`
	OrderID       string          `gorm:"size:100;not null;index" json:"orderId"`
	TransactionID string          `gorm:"size:100;not null" json:"transactionId"`
	Status        string          `gorm:"size:50;not null" json:"status"`
	OrderStatus   string          `gorm:"size:50" json:"orderStatus"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:10;not null" json:"currency"`
	PayerEmail    string          `gorm:"size:100" json:"payerEmail"`
	CreateTime    string          `gorm:"size:50" json:"createTime"`
	UpdateTime    string          `gorm:"size:50" json:"updateTime"`
}
