package models

import "time"

type Item struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:100;not null"`
	Description   string  `gorm:"size:255"`
	HSNCode       string  `gorm:"size:20"` // HSN/SAC code for GST filing
	Unit          string  `gorm:"size:20;not null"`
	PurchasePrice float64 `gorm:"not null;default:0"`
	SalePrice     float64 `gorm:"not null;default:0"`
	StockQuantity float64 `gorm:"not null;default:0"` // never negative, decremented by invoicing
	GSTRate       float64 `gorm:"not null;default:0"` // percent, 0-100
	CompanyID     uint    `gorm:"index;not null"`
	Company       Company
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
