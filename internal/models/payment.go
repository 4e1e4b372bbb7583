package models

import "time"

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCard         PaymentMode = "card"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard, PaymentModeBankTransfer:
		return true
	}
	return false
}

type Payment struct {
	ID              uint `gorm:"primaryKey"`
	InvoiceID       uint `gorm:"index;not null"`
	Invoice         Invoice
	PartyID         uint `gorm:"index;not null"`
	Party           Party
	PaymentMode     PaymentMode `gorm:"size:20;not null"`
	Amount          float64     `gorm:"not null"`
	TransactionDate time.Time   `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
