package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

type Invoice struct {
	ID            uint  `gorm:"primaryKey"`
	InvoiceNumber int64 `gorm:"uniqueIndex;not null"` // sequential, never reused
	PartyID       uint  `gorm:"index;not null"`
	Party         Party
	ShopID        uint `gorm:"index;not null"`
	Shop          ShopProfile `gorm:"foreignKey:ShopID"`
	InvoiceDate   time.Time   `gorm:"index;not null"`
	Items         []InvoiceItem

	TotalAmount float64 `gorm:"not null"` // sum of line totals, before tax
	TaxAmount   float64 `gorm:"not null"`
	NetAmount   float64 `gorm:"not null"` // total + tax, the amount due

	// PaidTotal and Status are derived from payments. They are stored for
	// read performance but always recomputed by the ledger on change.
	PaidTotal float64       `gorm:"not null;default:0"`
	Status    InvoiceStatus `gorm:"size:20;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"index;not null"`
	ItemID    uint `gorm:"index;not null"`
	Item      Item
	Quantity  float64 `gorm:"not null"`
	Discount  float64 `gorm:"not null;default:0"`
	// Snapshotted from the Item at invoice creation so later catalog edits
	// do not rewrite history.
	UnitPrice float64 `gorm:"not null"`
	GSTRate   float64 `gorm:"not null"`
	LineTotal float64 `gorm:"not null"`
}

// DeriveStatus is the single source of truth for settlement status.
// Amounts are rounded to paise, so a half-paisa tolerance is enough to
// absorb float64 summation noise.
func DeriveStatus(netAmount, paidTotal float64) InvoiceStatus {
	const eps = 0.005
	switch {
	case paidTotal <= eps:
		return InvoiceStatusUnpaid
	case paidTotal >= netAmount-eps:
		return InvoiceStatusPaid
	default:
		return InvoiceStatusPartial
	}
}
