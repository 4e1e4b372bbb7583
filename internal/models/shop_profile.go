package models

import "time"

// ShopProfile: issuer details printed on invoices (seller GSTIN, bank, signatory).
type ShopProfile struct {
	ID                   uint   `gorm:"primaryKey"`
	ShopName             string `gorm:"size:100;not null"`
	GSTIN                string `gorm:"size:20"`
	Address              string `gorm:"size:255"`
	Phone                string `gorm:"size:20"`
	Email                string `gorm:"size:100"`
	BankName             string `gorm:"size:100"`
	AccountNumber        string `gorm:"size:30"`
	IFSCCode             string `gorm:"size:20"`
	QRCodeURL            string `gorm:"size:255"`
	AuthorizedSignatory  string `gorm:"size:100"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
